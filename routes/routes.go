package routes

import (
	"net/http"

	"bazaar/admin"
	"bazaar/auth"
	"bazaar/categories"
	"bazaar/metrics"
	"bazaar/middleware"
	"bazaar/orders"
	"bazaar/products"
	"bazaar/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddMetricsRoutes(router *httprouter.Router) {
	router.GET("/metrics", metrics.Handler)
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", metrics.Measure("/api/auth/register", rl.Limit(auth.Register)))
	router.POST("/api/auth/login", metrics.Measure("/api/auth/login", rl.Limit(auth.Login)))
	router.DELETE("/api/auth/user/:email", metrics.Measure("/api/auth/user/:email", middleware.Authenticate(middleware.AdminOnly(auth.DeleteUser))))
	router.PUT("/api/auth/users/:userid/role", metrics.Measure("/api/auth/users/:userid/role", middleware.Authenticate(middleware.AdminOnly(auth.SetUserRole))))
}

func AddCategoryRoutes(router *httprouter.Router) {
	router.GET("/api/categories", metrics.Measure("/api/categories", categories.GetCategories))
	router.GET("/api/categories/:categoryid", metrics.Measure("/api/categories/:categoryid", categories.GetCategory))
	router.POST("/api/categories", metrics.Measure("/api/categories", middleware.Authenticate(middleware.AdminOnly(categories.CreateCategory))))
	router.PUT("/api/categories/:categoryid", metrics.Measure("/api/categories/:categoryid", middleware.Authenticate(middleware.AdminOnly(categories.EditCategory))))
	router.DELETE("/api/categories/:categoryid", metrics.Measure("/api/categories/:categoryid", middleware.Authenticate(middleware.AdminOnly(categories.DeleteCategory))))
	router.POST("/api/categories/:categoryid/subcategories", metrics.Measure("/api/categories/:categoryid/subcategories", middleware.Authenticate(middleware.AdminOnly(categories.AddSubcategory))))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", metrics.Measure("/api/products", products.GetProducts))
	router.GET("/api/products/:productid", metrics.Measure("/api/products/:productid", products.GetProduct))
	router.POST("/api/products", metrics.Measure("/api/products", middleware.Authenticate(middleware.AdminOnly(products.CreateProduct))))
	router.PUT("/api/products/:productid", metrics.Measure("/api/products/:productid", middleware.Authenticate(middleware.AdminOnly(products.EditProduct))))
	router.DELETE("/api/products/:productid", metrics.Measure("/api/products/:productid", middleware.Authenticate(middleware.AdminOnly(products.DeleteProduct))))

	router.POST("/api/products/:productid/reviews", metrics.Measure("/api/products/:productid/reviews", middleware.Authenticate(products.AddReview)))
	router.PUT("/api/products/:productid/reviews/:reviewid", metrics.Measure("/api/products/:productid/reviews/:reviewid", middleware.Authenticate(products.EditReview)))
	router.DELETE("/api/products/:productid/reviews/:reviewid", metrics.Measure("/api/products/:productid/reviews/:reviewid", middleware.Authenticate(products.DeleteReview)))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/orders", metrics.Measure("/api/orders", middleware.Authenticate(orders.CreateOrder)))
	router.GET("/api/orders/all", metrics.Measure("/api/orders/all", middleware.Authenticate(middleware.AdminOnly(orders.GetAllOrders))))
	router.GET("/api/orders/my-orders", metrics.Measure("/api/orders/my-orders", middleware.Authenticate(orders.GetMyOrders)))
	router.GET("/api/orders/order/:orderid", metrics.Measure("/api/orders/order/:orderid", middleware.Authenticate(orders.GetOrder)))
	router.PATCH("/api/orders/order/:orderid/status", metrics.Measure("/api/orders/order/:orderid/status", middleware.Authenticate(middleware.AdminOnly(orders.UpdateOrderStatus))))
	router.DELETE("/api/orders/order/:orderid", metrics.Measure("/api/orders/order/:orderid", middleware.Authenticate(orders.DeleteOrder)))
	router.GET("/api/orders/order/:orderid/invoice", metrics.Measure("/api/orders/order/:orderid/invoice", middleware.Authenticate(orders.PrintInvoice)))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/activity", metrics.Measure("/api/admin/activity", middleware.Authenticate(middleware.AdminOnly(admin.RecentActivity))))
}

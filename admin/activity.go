package admin

import (
	"encoding/json"
	"net/http"

	"bazaar/mq"
	"bazaar/rdx"
	"bazaar/utils"

	"github.com/julienschmidt/httprouter"
)

// GET /api/admin/activity  (admin)
// Recent catalog lifecycle events, newest first, as recorded by the
// activity worker.
func RecentActivity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := rdx.ListRange(mq.ActivityKey, mq.ActivitySize)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load activity")
		return
	}

	events := make([]json.RawMessage, 0, len(entries))
	for _, entry := range entries {
		events = append(events, json.RawMessage(entry))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"events": events})
}

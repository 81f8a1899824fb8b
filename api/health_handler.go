package api

import (
	"net/http"
	"time"

	"github.com/raushankrgupta/phoneswap-server/utils"
)

// Root answers the banner text.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("PhoneSwap Server is running"))
}

// Health reports liveness and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondData(w, map[string]string{
		"status": "ok",
		"uptime": h.now().Sub(h.started).Round(time.Second).String(),
	})
}

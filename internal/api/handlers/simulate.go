package handlers

import (
	"net/http"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/services"
)

// ObservedSimulation is the subset of the metrics registry the simulate
// endpoint reports to.
type ObservedSimulation interface {
	ObserveSimulation(days, entries, restarts int)
}

type SimulateHandler struct {
	Simulator *services.Simulator
	Metrics   ObservedSimulation
}

// Simulate runs the duty-cycle engine directly, without geocoding or routing.
func (h *SimulateHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start, err := dto.ParseStartDatetime(req.StartDatetime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.Simulator.Run(start, req.TotalDrivingMinutes, req.CycleHoursUsed)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if h.Metrics != nil {
		entries := 0
		for _, d := range res.Days {
			entries += len(d.Entries)
		}
		h.Metrics.ObserveSimulation(len(res.Days), entries, res.Restarts(h.Simulator.Rules().RestartMinutes()))
	}

	writeJSON(w, r, http.StatusOK, dto.FromSimulation(res))
}

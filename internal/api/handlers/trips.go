package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/go-chi/chi/v5"
)

// TripPlanner is implemented by *services.TripPlanner.
type TripPlanner interface {
	PlanTrip(ctx context.Context, req services.PlanTripRequest) (*domain.Trip, error)
}

type TripHandler struct {
	Planner TripPlanner
	Repo    ports.TripRepository
}

// Create plans a trip and responds with its route and duty logs.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start, err := dto.ParseStartDatetime(req.StartDatetime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.Planner.PlanTrip(r.Context(), services.PlanTripRequest{
		DriverID:        req.Driver,
		StartAt:         start,
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleHoursUsed:  req.CycleHoursUsed,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.FromTrip(trip))
}

// Hello is the plain-text liveness message of the trip endpoint.
func (h *TripHandler) Hello(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Hello! Backend is working fine.")
}

// List renders every stored trip as a plain-text block.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Repo.ListTrips(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if len(trips) == 0 {
		writeText(w, http.StatusOK, "No trips found.")
		return
	}

	var b strings.Builder
	for _, t := range trips {
		fmt.Fprintf(&b, "Trip ID: %d\n", t.ID)
		fmt.Fprintf(&b, "Driver: %d\n", t.DriverID)
		fmt.Fprintf(&b, "Start: %s\n", t.StartAt.UTC().Format("2006-01-02 15:04:05-07:00"))
		fmt.Fprintf(&b, "From: %s\n", t.CurrentLocation)
		fmt.Fprintf(&b, "Pickup: %s\n", t.PickupLocation)
		fmt.Fprintf(&b, "Dropoff: %s\n", t.DropoffLocation)
		fmt.Fprintf(&b, "Distance/Duration: %s miles / %s min\n",
			strconv.FormatFloat(t.Route.DistanceMiles, 'f', -1, 64),
			strconv.FormatFloat(t.Route.DurationMinutes, 'f', -1, 64),
		)
		b.WriteString("-------------------------\n")
	}

	writeText(w, http.StatusOK, b.String())
}

// Get returns the stored route and logs of one trip.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "trip id must be a positive integer")
		return
	}

	trip, err := h.Repo.GetTrip(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}

// Drivers lists the drivers trips can be planned for.
func (h *TripHandler) Drivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Repo.ListDrivers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := make([]dto.Driver, 0, len(drivers))
	for _, d := range drivers {
		res = append(res, dto.Driver{ID: d.ID, Name: d.Name, DriverNumber: d.DriverNumber})
	}
	writeJSON(w, r, http.StatusOK, res)
}

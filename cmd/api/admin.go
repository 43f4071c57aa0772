package main

import (
	"fmt"
	"net/http"

	"cityguide/internal/domain/access"
	"cityguide/internal/domain/places"
	"cityguide/internal/domain/submissions"
	"cityguide/internal/domain/updates"
	"cityguide/internal/domain/users"
)

type AdminUpdateUserPayload struct {
	IsActive *bool   `json:"isActive"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
}

type ReviewDecisionPayload struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes" validate:"max=1000"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers          int            `json:"totalUsers"`
	ActiveUsers         int            `json:"activeUsers"`
	BannedUsers         int            `json:"bannedUsers"`
	TotalPlaces         int            `json:"totalPlaces"`
	PendingSubmissions  int            `json:"pendingSubmissions"`
	ApprovedSubmissions int            `json:"approvedSubmissions"`
	RejectedSubmissions int            `json:"rejectedSubmissions"`
	PendingUpdates      int            `json:"pendingUpdates"`
	PlacesByCategory    []places.Count `json:"placesByCategory"`
	PlacesByCity        []places.Count `json:"placesByCity"`
}

// adminListUsersHandler godoc
//
//	@Summary		List users
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	envelope
//	@Failure		403	{object}	error	"Admin only"
//	@Security		ApiKeyAuth
//	@Router			/admin/users [get]
func (app *application) adminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Users.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminUpdateUserHandler godoc
//
//	@Summary		Ban, unban or change a user's role
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		string					true	"User ID"
//	@Param			payload	body		AdminUpdateUserPayload	true	"Fields to change"
//	@Success		200		{object}	envelope
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"User not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/users/{userID} [patch]
func (app *application) adminUpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload AdminUpdateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patch := users.Patch{IsActive: payload.IsActive}
	if payload.Role != nil {
		role := users.Role(*payload.Role)
		patch.Role = &role
	}

	user, err := app.store.Users.Update(r.Context(), id, patch)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	app.logger.Infow("user updated by admin", "user", id, "admin", getUserFromContext(r).ID)

	if err := app.messageResponse(w, http.StatusOK, "User updated successfully", user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminDeleteUserHandler godoc
//
//	@Summary		Delete a user
//	@Description	Removes the user with their submissions, favorites and push tokens. Owned places are kept without an owner.
//	@Tags			admin
//	@Produce		json
//	@Param			userID	path		string	true	"User ID"
//	@Success		200		{object}	envelope
//	@Failure		400		{object}	ErrorBadRequestResponse	"Cannot delete yourself"
//	@Failure		404		{object}	error					"User not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/users/{userID} [delete]
func (app *application) adminDeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	admin := getUserFromContext(r)

	id, err := parseIDParam(r, "userID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := access.CheckSelfDeletion(admin, id); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Users.Delete(r.Context(), id); err != nil {
		app.domainError(w, r, err)
		return
	}

	app.logger.Infow("user deleted by admin", "user", id, "admin", admin.ID)

	if err := app.messageResponse(w, http.StatusOK, "User deleted successfully", nil); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminListPlacesHandler godoc
//
//	@Summary		List all places with their owners
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	envelope
//	@Security		ApiKeyAuth
//	@Router			/admin/places [get]
func (app *application) adminListPlacesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Places.ListWithOwners(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminDeletePlaceHandler godoc
//
//	@Summary		Delete a place
//	@Tags			admin
//	@Produce		json
//	@Param			placeID	path		string	true	"Place ID"
//	@Success		200		{object}	envelope
//	@Failure		404		{object}	error	"Place not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/places/{placeID} [delete]
func (app *application) adminDeletePlaceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "placeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Places.Delete(r.Context(), id); err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.messageResponse(w, http.StatusOK, "Place deleted successfully", nil); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminListSubmissionsHandler godoc
//
//	@Summary		List submissions
//	@Tags			admin
//	@Produce		json
//	@Param			status	query		string	false	"Status filter"	Enums(pending, approved, rejected)
//	@Success		200		{object}	envelope
//	@Security		ApiKeyAuth
//	@Router			/admin/submissions [get]
func (app *application) adminListSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	status := submissions.Status(r.URL.Query().Get("status"))

	list, err := app.store.Submissions.List(r.Context(), status)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminReviewSubmissionHandler godoc
//
//	@Summary		Approve or reject a submission
//	@Description	Approval creates the place, owned by the submitter
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			submissionID	path		string					true	"Submission ID"
//	@Param			payload			body		ReviewDecisionPayload	true	"Decision"
//	@Success		200				{object}	envelope
//	@Failure		400				{object}	ErrorBadRequestResponse
//	@Failure		404				{object}	error	"Submission not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/submissions/{submissionID} [patch]
func (app *application) adminReviewSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	admin := getUserFromContext(r)

	id, err := parseIDParam(r, "submissionID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ReviewDecisionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub, err := app.moderation.ReviewSubmission(r.Context(), id, payload.Status, payload.AdminNotes, admin.ID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	msg := fmt.Sprintf("Submission %s successfully", sub.Status)
	if err := app.messageResponse(w, http.StatusOK, msg, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminListUpdatesHandler godoc
//
//	@Summary		List update requests
//	@Tags			admin
//	@Produce		json
//	@Param			status	query		string	false	"Status filter"	Enums(pending, approved, rejected)
//	@Success		200		{object}	envelope
//	@Security		ApiKeyAuth
//	@Router			/admin/updates [get]
func (app *application) adminListUpdatesHandler(w http.ResponseWriter, r *http.Request) {
	status := updates.Status(r.URL.Query().Get("status"))

	list, err := app.store.Updates.List(r.Context(), status)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminReviewUpdateHandler godoc
//
//	@Summary		Approve or reject an update request
//	@Description	Approval applies the changes. If the place was deleted meanwhile the request is approved with applyResult place_missing.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			updateID	path		string					true	"Update request ID"
//	@Param			payload		body		ReviewDecisionPayload	true	"Decision"
//	@Success		200			{object}	envelope
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"Update request not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/updates/{updateID} [patch]
func (app *application) adminReviewUpdateHandler(w http.ResponseWriter, r *http.Request) {
	admin := getUserFromContext(r)

	id, err := parseIDParam(r, "updateID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ReviewDecisionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	u, err := app.moderation.ReviewUpdate(r.Context(), id, payload.Status, payload.AdminNotes, admin.ID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	msg := fmt.Sprintf("Update request %s successfully", u.Status)
	switch u.ApplyResult {
	case updates.ApplyPlaceMissing:
		msg = "Update request approved, but the place no longer exists so nothing was changed"
	case updates.ApplySuperseded:
		msg = "Update request approved, but a later update was already applied so nothing was changed"
	}
	if err := app.messageResponse(w, http.StatusOK, msg, u); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminStatsHandler godoc
//
//	@Summary		Dashboard statistics
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	DashboardStats
//	@Security		ApiKeyAuth
//	@Router			/admin/stats [get]
func (app *application) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userStats, err := app.store.Users.Stats(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	placeStats, err := app.store.Places.Stats(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	subStats, err := app.store.Submissions.Stats(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pendingUpdates, err := app.store.Updates.CountPending(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	stats := DashboardStats{
		TotalUsers:          userStats.Total,
		ActiveUsers:         userStats.Active,
		BannedUsers:         userStats.Banned,
		TotalPlaces:         placeStats.Total,
		PendingSubmissions:  subStats.Pending,
		ApprovedSubmissions: subStats.Approved,
		RejectedSubmissions: subStats.Rejected,
		PendingUpdates:      pendingUpdates,
		PlacesByCategory:    placeStats.ByCategory,
		PlacesByCity:        placeStats.ByCity,
	}

	if err := app.jsonResponse(w, http.StatusOK, stats); err != nil {
		app.internalServerError(w, r, err)
	}
}

package reservations

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"reservly/internal/audit"
	"reservly/internal/shared/middleware"
	"reservly/internal/shared/utils/response"
	"reservly/internal/users"
	"reservly/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service  Service
	users    users.Service
	auditLog audit.Service
	cache    cache.Service
	cacheTTL time.Duration
}

// NewController wires the HTTP layer. The cache is optional; pass nil to
// serve availability lookups straight from the store.
func NewController(service Service, usersSvc users.Service, auditLog audit.Service, cacheSvc cache.Service, cacheTTL time.Duration) *Controller {
	return &Controller{service: service, users: usersSvc, auditLog: auditLog, cache: cacheSvc, cacheTTL: cacheTTL}
}

// respondError maps engine error types onto HTTP statuses. Conflicts carry
// the blocker's disclosable summary in the errors field.
func respondError(ctx *gin.Context, err error) {
	var (
		validation *ValidationError
		conflict   *ConflictError
		blocked    *BlockedDateError
		stale      *StaleStateError
	)
	switch {
	case errors.As(err, &validation):
		response.Error(ctx, http.StatusBadRequest, validation.Error(), gin.H{"field": validation.Field})
	case errors.As(err, &conflict):
		response.Error(ctx, http.StatusConflict, conflict.Error(), gin.H{"blocker": conflict.Blocker})
	case errors.As(err, &blocked):
		response.Error(ctx, http.StatusUnprocessableEntity, blocked.Error(), nil)
	case errors.As(err, &stale):
		response.Error(ctx, http.StatusConflict, stale.Error(), nil)
	case errors.Is(err, ErrNotFound):
		response.Error(ctx, http.StatusNotFound, "Reservation not found", nil)
	case errors.Is(err, ErrNotPermitted):
		response.Error(ctx, http.StatusForbidden, "Not permitted", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// actor pulls the authenticated user's id and staff flag out of the context.
func actor(ctx *gin.Context) (uuid.UUID, bool, error) {
	raw, exists := ctx.Get(middleware.ContextUserID)
	if !exists {
		return uuid.Nil, false, fmt.Errorf("user not authenticated")
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false, fmt.Errorf("invalid user id claim")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("invalid user id claim")
	}

	isStaff := false
	if roleRaw, exists := ctx.Get(middleware.ContextUserRole); exists {
		if roleStr, ok := roleRaw.(string); ok {
			isStaff = users.Role(roleStr).IsStaff()
		}
	}
	return id, isStaff, nil
}

func (c *Controller) SubmitReservation(ctx *gin.Context) {
	actorID, _, err := actor(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	var req SubmitReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	requester, err := c.users.GetUser(ctx.Request.Context(), actorID)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, "Unknown requester", nil)
		return
	}

	input, err := req.ToSubmitInput(requester.ID, requester.FullName)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if input.ContactEmail == "" {
		input.ContactEmail = requester.Email
	}

	result, err := c.service.Submit(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Reservation submitted", SubmitResponse{
		Reservation:   NewReservationResponse(result.Reservation),
		QueuePosition: result.QueuePosition,
		BlockedBy:     result.BlockedBy,
	})
}

func (c *Controller) GetReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid reservation ID", nil)
		return
	}

	actorID, isStaff, err := actor(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	res, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if res.RequesterID != actorID && !isStaff {
		response.Error(ctx, http.StatusForbidden, "Not permitted", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Reservation retrieved", NewReservationResponse(res))
}

func (c *Controller) GetQueuePosition(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid reservation ID", nil)
		return
	}

	position, err := c.service.QueuePosition(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Queue position retrieved", QueuePositionResponse{
		ReservationID: id.String(),
		Position:      position,
	})
}

func (c *Controller) ListMyReservations(ctx *gin.Context) {
	actorID, _, err := actor(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	list, err := c.service.ListForRequester(ctx.Request.Context(), actorID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Reservations retrieved", NewReservationListResponse(list))
}

func (c *Controller) WithdrawReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid reservation ID", nil)
		return
	}

	actorID, isStaff, err := actor(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	var req DecisionRequest
	_ = ctx.ShouldBindJSON(&req) // reason is optional

	res, err := c.service.Withdraw(ctx.Request.Context(), id, actorID, isStaff, req.Reason)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if isStaff {
		c.auditLog.Log(ctx.Request.Context(), actorID, fmt.Sprintf("withdrew reservation %s", id))
	}
	response.Success(ctx, http.StatusOK, "Reservation withdrawn", NewReservationResponse(res))
}

func (c *Controller) RescheduleReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid reservation ID", nil)
		return
	}

	actorID, isStaff, err := actor(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	var req RescheduleReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	input, err := req.ToRescheduleInput()
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	res, err := c.service.Reschedule(ctx.Request.Context(), id, actorID, isStaff, input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Reservation rescheduled", NewReservationResponse(res))
}

func (c *Controller) ApproveReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid reservation ID", nil)
		return
	}

	actorID, _, err := actor(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	res, err := c.service.Approve(ctx.Request.Context(), id, actorID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	c.auditLog.Log(ctx.Request.Context(), actorID, fmt.Sprintf("approved reservation %s", id))
	response.Success(ctx, http.StatusOK, "Reservation approved", NewReservationResponse(res))
}

func (c *Controller) DeclineReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid reservation ID", nil)
		return
	}

	actorID, _, err := actor(ctx)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	var req DecisionRequest
	_ = ctx.ShouldBindJSON(&req)

	res, err := c.service.Decline(ctx.Request.Context(), id, actorID, req.Reason)
	if err != nil {
		respondError(ctx, err)
		return
	}

	c.auditLog.Log(ctx.Request.Context(), actorID, fmt.Sprintf("declined reservation %s", id))
	response.Success(ctx, http.StatusOK, "Reservation declined", NewReservationResponse(res))
}

func (c *Controller) ListReservationsAdmin(ctx *gin.Context) {
	filter := AdminFilter{Status: Status(ctx.Query("status"))}
	if filter.Status != "" && !filter.Status.IsValid() {
		response.Error(ctx, http.StatusBadRequest, "Invalid status filter", nil)
		return
	}
	if raw := ctx.Query("resource_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid resource_id filter", nil)
			return
		}
		filter.ResourceID = &id
	}
	if raw := ctx.Query("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid date filter, expected YYYY-MM-DD", nil)
			return
		}
		filter.Date = &date
	}

	list, err := c.service.ListAdmin(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Reservations retrieved", NewReservationListResponse(list))
}

func (c *Controller) GetUnavailableDates(ctx *gin.Context) {
	resourceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid resource ID", nil)
		return
	}

	from := time.Now().UTC()
	to := from.AddDate(0, 3, 0)
	if raw := ctx.Query("from"); raw != "" {
		from, err = time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD", nil)
			return
		}
	}
	if raw := ctx.Query("to"); raw != "" {
		to, err = time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD", nil)
			return
		}
	}
	if to.Before(from) {
		response.Error(ctx, http.StatusBadRequest, "to must not precede from", nil)
		return
	}

	payload, err := c.unavailableDates(ctx, resourceID, from, to)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Unavailable dates retrieved", payload)
}

// unavailableDates serves availability through the cache-aside path when a
// cache is wired. The TTL is short; availability staleness is bounded by it.
func (c *Controller) unavailableDates(ctx *gin.Context, resourceID uuid.UUID, from, to time.Time) (UnavailableDatesResponse, error) {
	fetch := func() (interface{}, error) {
		dates, err := c.service.UnavailableDates(ctx.Request.Context(), resourceID, from, to)
		if err != nil {
			return nil, err
		}
		return NewUnavailableDatesResponse(resourceID.String(), from, to, dates), nil
	}

	if c.cache == nil {
		payload, err := fetch()
		if err != nil {
			return UnavailableDatesResponse{}, err
		}
		return payload.(UnavailableDatesResponse), nil
	}

	key := fmt.Sprintf("reservly:unavailable:%s:%s:%s",
		resourceID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	var payload UnavailableDatesResponse
	if err := c.cache.GetOrSet(ctx.Request.Context(), key, c.cacheTTL, fetch, &payload); err != nil {
		return UnavailableDatesResponse{}, err
	}
	return payload, nil
}

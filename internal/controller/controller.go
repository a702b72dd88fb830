package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"procurement/internal/api"
	"procurement/internal/comparison"
	"procurement/internal/logger"
	"procurement/internal/models"
	"procurement/internal/notify"
	"procurement/internal/search"
	"procurement/internal/service"
)

const maxBodySize = 1 << 20

type Service interface {
	Login(ctx context.Context, email, password string) (models.User, error)
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, userId models.ID, req api.ConfirmResetRequest) error
	ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error

	AuctionBuckets(ctx context.Context, q service.ListQuery) (service.AuctionList, error)
	Auction(ctx context.Context, id models.ID) (models.Auction, error)
	AuctionLines(ctx context.Context, id models.ID) ([]models.AuctionLine, error)
	Comparison(ctx context.Context, id models.ID) (comparison.Comparison, error)
	Comments(ctx context.Context, id models.ID) ([]models.Comment, error)
	PostComment(ctx context.Context, id models.ID, text string) ([]models.Comment, error)
	SubmitBid(ctx context.Context, id models.ID, req api.BidRequest) (models.Bid, error)

	PurchaseOrders(ctx context.Context, q service.ListQuery) ([]models.PurchaseOrder, error)
	PurchaseOrder(ctx context.Context, id models.ID) (models.PurchaseOrder, error)
	PurchaseOrderStatuses(ctx context.Context, id models.ID) ([]models.PurchaseOrderStatus, error)
	SetPurchaseOrderStatus(ctx context.Context, id models.ID, status models.POStatus, remarks string) (models.PurchaseOrder, error)

	Products(ctx context.Context, q service.ListQuery) ([]models.Product, error)
	Product(ctx context.Context, id models.ID) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id models.ID, changes map[string]any) (models.Product, error)
	Enquiries(ctx context.Context, q service.ListQuery) ([]models.ProductEnquiry, error)
	UpdateEnquiry(ctx context.Context, id models.ID, status models.EnquiryStatus) (models.ProductEnquiry, error)
	DeleteEnquiry(ctx context.Context, id models.ID) error

	Sellers(ctx context.Context, q service.ListQuery) ([]models.Organisation, error)
	Clients(ctx context.Context, q service.ListQuery) ([]models.Organisation, error)

	Tasks(ctx context.Context, q service.ListQuery) ([]models.WorkflowTask, error)
	TaskAction(ctx context.Context, id models.ID, req api.TaskActionRequest) (models.WorkflowTask, error)

	InitNotifications(ctx context.Context) error
}

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{service: service, log: log}
}

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

//// Account

// POST /api/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseLoginReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	// the token stays in the gateway session
	c.marshalResponse(w, struct {
		UserId models.ID `json:"user_id"`
		Email  string    `json:"email"`
	}{user.UserId, user.Email})
}

// POST /api/logout
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Logout(r.Context()); err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/reset-password
func (c *Controller) ResetPassword(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseResetPasswordReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.service.ResetPassword(r.Context(), req.Email); err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/reset-password/{userId}
func (c *Controller) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	userId := models.ID(r.PathValue("userId"))
	if userId.Empty() {
		c.errorResponse(w, http.StatusBadRequest, "empty userId supplied")
		return
	}

	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseConfirmResetReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.service.ConfirmPasswordReset(r.Context(), userId, *req); err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/change-password
func (c *Controller) ChangePassword(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseChangePasswordReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.service.ChangePassword(r.Context(), *req); err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//// Auctions

// GET /api/auctions
func (c *Controller) Auctions(w http.ResponseWriter, r *http.Request) {
	q, ok := c.listQuery(w, r)
	if !ok {
		return
	}

	list, err := c.service.AuctionBuckets(r.Context(), q)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, list)
}

// GET /api/auctions/{id}
func (c *Controller) Auction(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	a, err := c.service.Auction(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, a)
}

// GET /api/auctions/{id}/lines
func (c *Controller) AuctionLines(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	lines, err := c.service.AuctionLines(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, lines)
}

// GET /api/auctions/{id}/comparison
func (c *Controller) Comparison(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	cmp, err := c.service.Comparison(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, cmp)
}

// GET /api/auctions/{id}/comments
func (c *Controller) Comments(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	comments, err := c.service.Comments(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, comments)
}

// POST /api/auctions/{id}/comments
func (c *Controller) PostComment(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseCommentReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	comments, err := c.service.PostComment(r.Context(), id, req.Text)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, comments)
}

// POST /api/auctions/{id}/bids
func (c *Controller) SubmitBid(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseBidReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	bid, err := c.service.SubmitBid(r.Context(), id, *req)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, bid)
}

//// Purchase orders

// GET /api/purchase-orders
func (c *Controller) PurchaseOrders(w http.ResponseWriter, r *http.Request) {
	q, ok := c.listQuery(w, r)
	if !ok {
		return
	}

	orders, err := c.service.PurchaseOrders(r.Context(), q)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, orders)
}

// GET /api/purchase-orders/{id}
func (c *Controller) PurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	po, err := c.service.PurchaseOrder(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, po)
}

// GET /api/purchase-orders/statuses
func (c *Controller) PurchaseOrderStatuses(w http.ResponseWriter, r *http.Request) {
	id := models.ID(r.URL.Query().Get("purchase_order"))

	statuses, err := c.service.PurchaseOrderStatuses(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, statuses)
}

// POST /api/purchase-orders/{id}/status
func (c *Controller) SetPurchaseOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParsePOStatusReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	po, err := c.service.SetPurchaseOrderStatus(r.Context(), id, *req.Status, req.Remarks)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, po)
}

//// Catalog

// GET /api/products
func (c *Controller) Products(w http.ResponseWriter, r *http.Request) {
	q, ok := c.listQuery(w, r)
	if !ok {
		return
	}

	products, err := c.service.Products(r.Context(), q)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, products)
}

// GET /api/products/{id}
func (c *Controller) Product(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	p, err := c.service.Product(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, p)
}

// POST /api/products
func (c *Controller) CreateProduct(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseProductReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := c.service.CreateProduct(r.Context(), *req)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	c.marshalResponse(w, p)
}

// PATCH /api/products
func (c *Controller) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseProductChangeReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := c.service.UpdateProduct(r.Context(), req.Id, req.Changes)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, p)
}

// GET /api/enquiries
func (c *Controller) Enquiries(w http.ResponseWriter, r *http.Request) {
	q, ok := c.listQuery(w, r)
	if !ok {
		return
	}

	enquiries, err := c.service.Enquiries(r.Context(), q)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, enquiries)
}

// PATCH /api/enquiries/{id}
func (c *Controller) UpdateEnquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	status, err := ParseEnquiryStatusReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	enquiry, err := c.service.UpdateEnquiry(r.Context(), id, status)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, enquiry)
}

// DELETE /api/enquiries/{id}
func (c *Controller) DeleteEnquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	if err := c.service.DeleteEnquiry(r.Context(), id); err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//// Organisations

// GET /api/organisations/sellers
func (c *Controller) Sellers(w http.ResponseWriter, r *http.Request) {
	q, ok := c.listQuery(w, r)
	if !ok {
		return
	}

	orgs, err := c.service.Sellers(r.Context(), q)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, orgs)
}

// GET /api/organisations/clients
func (c *Controller) Clients(w http.ResponseWriter, r *http.Request) {
	q, ok := c.listQuery(w, r)
	if !ok {
		return
	}

	orgs, err := c.service.Clients(r.Context(), q)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, orgs)
}

//// Workflow

// GET /api/tasks
func (c *Controller) Tasks(w http.ResponseWriter, r *http.Request) {
	q, ok := c.listQuery(w, r)
	if !ok {
		return
	}

	tasks, err := c.service.Tasks(r.Context(), q)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, tasks)
}

// POST /api/tasks/{id}/action
func (c *Controller) TaskAction(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathId(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(w, r)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := ParseTaskActionReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := c.service.TaskAction(r.Context(), id, *req)
	if err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}

	c.marshalResponse(w, task)
}

// POST /api/notifications/init
func (c *Controller) InitNotifications(w http.ResponseWriter, r *http.Request) {
	if err := c.service.InitNotifications(r.Context()); err != nil {
		c.serviceErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Service

type ErrorResponse struct {
	Reason string `json:"reason"`
	Retry  bool   `json:"retry,omitempty"`
}

func (c *Controller) listQuery(w http.ResponseWriter, r *http.Request) (service.ListQuery, bool) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return service.ListQuery{}, false
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return service.ListQuery{}, false
	}

	sort := search.SortKey(query.Get("sort"))
	if len(sort) > 0 && !search.ValidSortKey(sort) {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'sort' query parameter: "+string(sort))
		return service.ListQuery{}, false
	}

	return service.ListQuery{
		Search: query.Get("search"),
		Sort:   sort,
		Limit:  limit,
		Offset: offset,
	}, true
}

func (c *Controller) pathId(w http.ResponseWriter, r *http.Request) (models.ID, bool) {
	id := models.ID(r.PathValue("id"))
	if id.Empty() {
		c.errorResponse(w, http.StatusBadRequest, "empty id supplied")
		return "", false
	}
	return id, true
}

func (c *Controller) getQueryInt(query url.Values, key string) (int, error) {
	strs, ok := query[key]
	if ok && len(strs) > 0 {
		return strconv.Atoi(strs[0])
	}
	return 0, nil
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	c.writeError(w, status, ErrorResponse{Reason: text})
}

// RecoveryResponse is the minimal body written when a handler panicked.
func (c *Controller) RecoveryResponse(w http.ResponseWriter, reason string) {
	c.writeError(w, http.StatusInternalServerError, ErrorResponse{Reason: reason, Retry: true})
}

func (c *Controller) writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	data, err := json.Marshal(body)
	if err != nil {
		c.log.Errorf("controller.Controller.errorResponse: %s", err)
		return
	}

	_, err = w.Write(data)
	if err != nil {
		c.log.Errorf("controller.Controller.errorResponse: %s", err)
		return
	}
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	// nobody is listening anymore
	if r.Context().Err() != nil {
		c.log.Debugf("controller: request canceled: %s", err)
		return
	}

	var apiErr *api.Error

	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrUnknownLine),
		errors.Is(err, models.ErrNoLines),
		errors.Is(err, search.ErrUnknownSortKey):
		c.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotLoggedIn):
		c.errorResponse(w, http.StatusUnauthorized, "no active session, log in first")
	case errors.Is(err, models.ErrNoAuction):
		c.errorResponse(w, http.StatusNotFound, "requested auction does not exist")
	case errors.Is(err, models.ErrTransition):
		c.errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, notify.ErrAlreadyRegistered):
		c.errorResponse(w, http.StatusConflict, "notifications are already registered")
	case errors.Is(err, notify.ErrPermissionDenied):
		c.errorResponse(w, http.StatusForbidden, "notification permission not granted")
	case errors.Is(err, notify.ErrOffline):
		c.errorResponse(w, http.StatusServiceUnavailable, "upstream api is unreachable")
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case api.KindInvalid:
			c.errorResponse(w, apiErr.Status, apiErr.Message)
		case api.KindNetwork:
			c.log.Warnf("controller: %s", err)
			c.errorResponse(w, http.StatusGatewayTimeout, "upstream api did not respond")
		default:
			c.log.Errorf("controller: %s", err)
			c.errorResponse(w, http.StatusBadGateway, "upstream api failed: "+apiErr.Message)
		}
	default:
		c.log.Errorf("controller: %s", err)
		c.errorResponse(w, http.StatusInternalServerError, "internal server error: "+err.Error())
	}
}

func (c *Controller) marshalResponse(w http.ResponseWriter, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not marshal response data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(d)
	if err != nil {
		c.log.Errorf("controller.Controller.marshalResponse: %s", err)
		return
	}
}

func (c *Controller) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	src := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer src.Close()

	return io.ReadAll(src)
}

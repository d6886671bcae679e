package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/service"
)

const (
	paymentProofField = "payment_proof"
	returnImagesField = "return_condition_images[]"
	defaultMaxUpload  = 10 << 20
)

type RentalHandler struct {
	rentalSvc      service.RentalService
	dashboardSvc   service.DashboardService
	maxUploadBytes int64
}

func NewRentalHandler(rentalSvc service.RentalService, dashboardSvc service.DashboardService, maxUploadBytes int64) *RentalHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUpload
	}
	return &RentalHandler{rentalSvc: rentalSvc, dashboardSvc: dashboardSvc, maxUploadBytes: maxUploadBytes}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type rentalListResponse struct {
	Rentals []domain.Rental `json:"rentals"`
	Total   int32           `json:"total"`
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var in service.CreateRentalInput
	if err := decodeJSON(r, &in, false); err != nil {
		writeError(w, err)
		return
	}
	rental, err := h.rentalSvc.CreateRentalRequest(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental, "Rental request submitted successfully.")
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = domain.RoleRenter
	}
	h.list(w, r, role)
}

func (h *RentalHandler) ListMyRentals(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.RoleRenter)
}

func (h *RentalHandler) list(w http.ResponseWriter, r *http.Request, role domain.Role) {
	userID, _ := UserIDFromContext(r.Context())
	q := r.URL.Query()
	filter := domain.RentalFilter{Statuses: parseStatuses(q["status"])}
	var err error
	if filter.Page, err = queryInt32(q.Get("page")); err != nil {
		writeError(w, domain.Validation("page: %v", err))
		return
	}
	if filter.Limit, err = queryInt32(q.Get("limit")); err != nil {
		writeError(w, domain.Validation("limit: %v", err))
		return
	}

	rentals, total, err := h.dashboardSvc.ListRentalsForUser(r.Context(), userID, role, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if rentals == nil {
		rentals = []domain.Rental{}
	}
	writeJSON(w, http.StatusOK, rentalListResponse{Rentals: rentals, Total: total}, "")
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	rental, err := h.rentalSvc.GetRentalDetails(r.Context(), rentalParam(r), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental, "")
}

func (h *RentalHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	view, err := h.rentalSvc.CheckPaymentStatus(r.Context(), rentalParam(r), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view, "")
}

func (h *RentalHandler) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	entries, err := h.rentalSvc.GetStatusHistory(r.Context(), rentalParam(r), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries, "")
}

func (h *RentalHandler) ApproveRental(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	rental, err := h.rentalSvc.ApproveRentalRequest(r.Context(), rentalParam(r), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental, "Rental approved successfully.")
}

func (h *RentalHandler) RejectRental(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req reasonRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		writeError(w, domain.Validation("reason is required"))
		return
	}
	rental, err := h.rentalSvc.RejectRentalRequest(r.Context(), rentalParam(r), userID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental, "Rental rejected successfully.")
}

func (h *RentalHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req reasonRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	rental, err := h.rentalSvc.CancelRentalByRenter(r.Context(), rentalParam(r), userID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental, "Rental cancelled successfully.")
}

func (h *RentalHandler) SubmitPaymentProof(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	if err := h.parseMultipart(w, r); err != nil {
		writeError(w, err)
		return
	}

	var in service.PaymentProofInput
	if raw := r.FormValue("amount_paid"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, domain.Validation("amount_paid must be a number"))
			return
		}
		in.AmountPaid = &amount
	}
	if raw := r.FormValue("transaction_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, domain.Validation("transaction_time must be an RFC 3339 timestamp"))
			return
		}
		in.TransactionTime = &t
	}

	var proof *domain.UploadedFile
	if headers := r.MultipartForm.File[paymentProofField]; len(headers) > 0 {
		f, err := readUpload(headers[0])
		if err != nil {
			writeError(w, err)
			return
		}
		proof = &f
	}

	rental, err := h.rentalSvc.SubmitPaymentProof(r.Context(), rentalParam(r), userID, proof, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental, "Payment proof submitted successfully.")
}

func (h *RentalHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var in service.VerifyPaymentInput
	if err := decodeJSON(r, &in, true); err != nil {
		writeError(w, err)
		return
	}
	rental, err := h.rentalSvc.VerifyPaymentByOwner(r.Context(), rentalParam(r), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental, "Payment verified successfully.")
}

func (h *RentalHandler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	if err := h.parseMultipart(w, r); err != nil {
		writeError(w, err)
		return
	}

	in := service.ProcessReturnInput{
		ReturnConditionStatus:  domain.ReturnCondition(r.FormValue("return_condition_status")),
		NotesFromOwnerOnReturn: r.FormValue("notes_from_owner_on_return"),
	}
	if raw := r.FormValue("actual_return_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, domain.Validation("actual_return_time must be an RFC 3339 timestamp"))
			return
		}
		in.ActualReturnTime = &t
	}
	if raw := r.FormValue("initiate_claim"); raw != "" {
		claim, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, domain.Validation("initiate_claim must be a boolean"))
			return
		}
		in.InitiateClaim = claim
	}

	var images []domain.UploadedFile
	for _, fh := range r.MultipartForm.File[returnImagesField] {
		f, err := readUpload(fh)
		if err != nil {
			writeError(w, err)
			return
		}
		images = append(images, f)
	}

	rental, err := h.rentalSvc.ProcessReturn(r.Context(), rentalParam(r), userID, in, images)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental, "Return processed successfully.")
}

func (h *RentalHandler) GetRenterDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	dash, err := h.dashboardSvc.GetRenterDashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash, "")
}

// parseMultipart parses a multipart body; the form field values alone are not enough
// because the handlers need the file headers too.
func (h *RentalHandler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Validation("request body exceeds %d bytes", h.maxUploadBytes)
		}
		return domain.Validation("expected a multipart/form-data body: %v", err)
	}
	return nil
}

func readUpload(fh *multipart.FileHeader) (domain.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.UploadedFile{}, domain.Validation("cannot read uploaded file %q", fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadedFile{}, domain.Validation("cannot read uploaded file %q", fh.Filename)
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return domain.UploadedFile{FileName: fh.Filename, ContentType: contentType, Data: data}, nil
}

// decodeJSON decodes the request body into dst. An empty body is accepted when optional.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return domain.Validation("invalid request body: %v", err)
	}
	return nil
}

func rentalParam(r *http.Request) string {
	return mux.Vars(r)["rental_id_or_uid"]
}

func parseStatuses(values []string) []domain.RentalStatus {
	var statuses []domain.RentalStatus
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, domain.RentalStatus(s))
			}
		}
	}
	return statuses
}

func queryInt32(raw string) (int32, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	return int32(n), nil
}

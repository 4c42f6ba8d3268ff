package web

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/liftedinit/gopay/internal/currency"
	"github.com/liftedinit/gopay/internal/forms"
	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/monitor"
	"github.com/liftedinit/gopay/internal/session"
	"github.com/liftedinit/gopay/internal/view"
)

const (
	msgLedgerFailed  = "Failed to load blockchain status"
	msgLedgerLoading = "Loading..."

	defaultFrom = "USD"
	defaultTo   = "EUR"
)

var mockBalances = []models.Balance{
	{Currency: "USD", Amount: 5000.00},
	{Currency: "EUR", Amount: 4200.00},
	{Currency: "INR", Amount: 6000.00},
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageLogin, pageData{Title: "Login"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form, err := forms.ParseLogin(r.PostForm)
	if verr, ok := forms.AsValidationError(err); ok {
		s.render(w, r, http.StatusUnprocessableEntity, pageLogin, pageData{
			Title:  "Login",
			Errors: verr.Fields,
			Form:   map[string]string{"email": form.Email},
		})
		return
	}
	if err != nil {
		formFailed(w, err)
		return
	}

	sess, token, err := s.sessions.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		slog.Warn("Login failed", "email", form.Email, "error", err)
		s.render(w, r, http.StatusUnauthorized, pageLogin, pageData{
			Title: "Login",
			Form:  map[string]string{"email": form.Email},
		}, session.Flash{Level: levelError, Message: msgLoginFailed})
		return
	}

	if prev, ok := session.FromContext(r.Context()); ok {
		s.sessions.Logout(prev)
	}
	setSessionCookie(w, token)
	if err := s.sessions.Store().AddFlash(sess.ID, levelSuccess, msgLoggedIn); err != nil {
		slog.Warn("Failed to queue notification", "error", err)
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		s.sessions.Logout(sess)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type balanceRow struct {
	Currency string
	Amount   string
}

type converterView struct {
	Amount     string
	From       string
	To         string
	Currencies []string
	Result     string
	Rate       string
	Error      string
}

type ledgerView struct {
	Message  string
	Ready    bool
	Snapshot view.Snapshot
}

type dashboardData struct {
	Balances  []balanceRow
	Converter converterView
	Ledger    ledgerView
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	balances := make([]balanceRow, 0, len(mockBalances))
	for _, b := range mockBalances {
		balances = append(balances, balanceRow{Currency: b.Currency, Amount: currency.FormatAmount(b.Amount)})
	}

	s.render(w, r, http.StatusOK, pageDashboard, pageData{
		Title: "Dashboard",
		Data: dashboardData{
			Balances:  balances,
			Converter: newConverterView(r.URL.Query()),
			Ledger:    newLedgerView(s.status.State()),
		},
	})
}

// newConverterView converts the amount in the query. An empty amount shows "-", a non-finite or non-numeric one converts as 0.
func newConverterView(q url.Values) converterView {
	v := converterView{
		Amount:     strings.TrimSpace(q.Get("amount")),
		From:       strings.ToUpper(strings.TrimSpace(q.Get("from"))),
		To:         strings.ToUpper(strings.TrimSpace(q.Get("to"))),
		Currencies: currency.Currencies(),
		Result:     "-",
	}
	if v.From == "" {
		v.From = defaultFrom
	}
	if v.To == "" {
		v.To = defaultTo
	}

	rate, err := currency.Rate(v.From, v.To)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.Rate = currency.FormatRate(rate)

	if v.Amount == "" {
		return v
	}
	amount, err := strconv.ParseFloat(v.Amount, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	converted, err := currency.Convert(amount, v.From, v.To)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.Result = currency.FormatAmount(converted) + " " + v.To
	return v
}

func newLedgerView(state monitor.State) ledgerView {
	switch {
	case state.Err != nil:
		return ledgerView{Message: msgLedgerFailed}
	case !state.Loaded:
		return ledgerView{Message: msgLedgerLoading}
	default:
		return ledgerView{Ready: true, Snapshot: state.Snapshot}
	}
}

type ledgerResponse struct {
	Loaded    bool       `json:"loaded"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	view.Snapshot
}

func (s *Server) ledgerStatus(w http.ResponseWriter, _ *http.Request) {
	state := s.status.State()
	resp := ledgerResponse{Loaded: state.Loaded, Snapshot: state.Snapshot}
	if !state.UpdatedAt.IsZero() {
		resp.UpdatedAt = &state.UpdatedAt
	}

	status := http.StatusOK
	if state.Err != nil {
		resp.Error = msgLedgerFailed
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("Failed to encode ledger status", "error", err)
	}
}

func (s *Server) paymentPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pagePayment, paymentPageData(nil, nil))
}

func paymentPageData(form map[string]string, errs map[string]string) pageData {
	if form == nil {
		form = map[string]string{"currency": defaultFrom}
	}
	return pageData{
		Title:  "Send Money",
		Form:   form,
		Errors: errs,
		Data:   currency.Currencies(),
	}
}

func (s *Server) submitPayment(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form, err := forms.ParsePayment(r.PostForm)
	if verr, ok := forms.AsValidationError(err); ok {
		values := map[string]string{
			"amount":      r.PostForm.Get("amount"),
			"currency":    form.Currency,
			"recipient":   form.Recipient,
			"description": form.Description,
		}
		s.render(w, r, http.StatusUnprocessableEntity, pagePayment, paymentPageData(values, verr.Fields))
		return
	}
	if err != nil {
		formFailed(w, err)
		return
	}

	notifier := flashNotifier{store: s.sessions.Store(), sessionID: sess.ID}
	res := s.payments.Submit(r.Context(), sess.User, form.Request(), notifier)
	if s.observer != nil {
		s.observer.Observe(res.State.String())
	}

	http.Redirect(w, r, "/payment", http.StatusSeeOther)
}

type kycView struct {
	Status        models.KYCStatus
	DocumentTypes []documentType
}

type documentType struct {
	Value string
	Label string
}

var documentTypes = []documentType{
	{Value: "passport", Label: "Passport"},
	{Value: "id", Label: "ID Card"},
	{Value: "license", Label: "Driver's License"},
}

func (s *Server) kycPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	s.render(w, r, http.StatusOK, pageKYC, kycPageData(sess, nil, nil))
}

func kycPageData(sess session.Session, form, errs map[string]string) pageData {
	if form == nil {
		form = map[string]string{"documentType": documentTypes[0].Value}
	}
	return pageData{
		Title:  "KYC Verification",
		Form:   form,
		Errors: errs,
		Data:   kycView{Status: sess.User.KYCStatus, DocumentTypes: documentTypes},
	}
}

func (s *Server) submitKYC(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form, err := forms.ParseKYC(r.PostForm)
	if verr, ok := forms.AsValidationError(err); ok {
		values := map[string]string{
			"firstName":      form.FirstName,
			"lastName":       form.LastName,
			"dateOfBirth":    form.DateOfBirth,
			"address":        form.Address,
			"documentType":   form.DocumentType,
			"documentNumber": form.DocumentNumber,
		}
		s.render(w, r, http.StatusUnprocessableEntity, pageKYC, kycPageData(sess, values, verr.Fields))
		return
	}
	if err != nil {
		formFailed(w, err)
		return
	}

	store := s.sessions.Store()
	if err := s.kyc.Save(r.Context(), sess.User.ID, form.Data()); err != nil {
		slog.Error("Failed to save KYC submission", "user_id", sess.User.ID, "error", err)
		if err := store.AddFlash(sess.ID, levelError, msgKYCFailed); err != nil {
			slog.Warn("Failed to queue notification", "error", err)
		}
		http.Redirect(w, r, "/kyc", http.StatusSeeOther)
		return
	}

	if err := store.SetKYCStatus(sess.ID, models.KYCPending); err != nil {
		slog.Warn("Failed to update KYC status", "error", err)
	}
	if err := store.AddFlash(sess.ID, levelSuccess, msgKYCSubmitted); err != nil {
		slog.Warn("Failed to queue notification", "error", err)
	}
	slog.Info("KYC submitted", "user_id", sess.User.ID)
	http.Redirect(w, r, "/kyc", http.StatusSeeOther)
}

func formFailed(w http.ResponseWriter, err error) {
	slog.Error("Failed to validate form", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Spok95/shelf-timer/internal/advisor"
	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/ledger"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
	"github.com/Spok95/shelf-timer/internal/domain/users"
	"github.com/Spok95/shelf-timer/internal/infra/metrics"
	"github.com/Spok95/shelf-timer/internal/report"
)

const defaultDays = 7

type Deps struct {
	Store     ledger.Store
	Users     *users.Table
	Advisor   *advisor.Client
	Location  *time.Location
	CO2Factor float64
	Log       *slog.Logger
	// Now подменяется в тестах.
	Now func() time.Time
}

// API — JSON-обёртка над аналитикой. Реестр читается заново на каждый запрос.
type API struct {
	store    ledger.Store
	users    *users.Table
	advisor  *advisor.Client
	loc      *time.Location
	factor   float64
	log      *slog.Logger
	now      func() time.Time
	validate *validator.Validate
}

func NewAPI(d Deps) *API {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &API{
		store:    d.Store,
		users:    d.Users,
		advisor:  d.Advisor,
		loc:      d.Location,
		factor:   d.CO2Factor,
		log:      d.Log,
		now:      d.Now,
		validate: validator.New(),
	}
}

func (a *API) Register(mux *http.ServeMux) {
	a.route(mux, "GET /api/expiring", "expiring", a.expiring)
	a.route(mux, "GET /api/grocery", "grocery", a.grocery)
	a.route(mux, "POST /api/purchases", "purchases", a.purchases)
	a.route(mux, "GET /api/dashboard", "dashboard", a.dashboard)
	a.route(mux, "GET /api/trend", "trend", a.trend)
	a.route(mux, "POST /api/subtract", "subtract", a.subtract)
	a.route(mux, "POST /api/ask", "ask", a.ask)
	a.route(mux, "GET /api/report.xlsx", "report", a.report)
}

func (a *API) today() time.Time { return analytics.Day(a.now().In(a.loc)) }

// load читает реестр; при ошибке сам отвечает 502 и возвращает false.
func (a *API) load(w http.ResponseWriter, r *http.Request) (pantry.Ledger, bool) {
	l, err := a.store.Load(r.Context())
	if err != nil {
		a.log.Error("ledger load failed", "err", err)
		writeError(w, http.StatusBadGateway, "ledger unavailable")
		return pantry.Ledger{}, false
	}
	return l, true
}

func queryDays(r *http.Request) (int, error) {
	s := r.URL.Query().Get("days")
	if s == "" {
		return defaultDays, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("days must be a non-negative integer, got %q", s)
	}
	return n, nil
}

func (a *API) expiring(w http.ResponseWriter, r *http.Request, u users.User) {
	days, err := queryDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, ok := a.load(w, r)
	if !ok {
		return
	}
	defer metrics.Track("expiring")()
	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"items": analytics.ExpiringWithin(l, u.Username, days, a.today()),
	})
}

func (a *API) grocery(w http.ResponseWriter, r *http.Request, u users.User) {
	days, err := queryDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, ok := a.load(w, r)
	if !ok {
		return
	}
	defer metrics.Track("grocery")()
	recs := analytics.Recommend(l, u.Username, days, a.today())
	writeJSON(w, http.StatusOK, map[string]any{
		"days":            days,
		"recommendations": recs,
		"by_type":         analytics.TypeBreakdown(recs, l, u.Username),
	})
}

type purchaseItem struct {
	FoodName   string  `json:"food_name" validate:"required"`
	Brand      string  `json:"brand"`
	FoodType   string  `json:"food_type"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
	Unit       string  `json:"unit"`
	Weight     float64 `json:"weight" validate:"gte=0"`
	WeightUnit string  `json:"weight_unit"`
	Price      float64 `json:"price" validate:"gte=0"`
	ExpiryDate string  `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

type purchaseRequest struct {
	ShopDate string         `json:"shop_date" validate:"omitempty,datetime=2006-01-02"`
	Items    []purchaseItem `json:"items" validate:"required,min=1,dive"`
}

// toPurchase: пустые поля заполняются из истории пользователя, срок годности по умолчанию +7 дней.
func (it purchaseItem) toPurchase(l pantry.Ledger, username string, shop time.Time, loc *time.Location) pantry.Purchase {
	prefill, _ := l.Prefill(username, it.FoodName, it.Brand)
	p := pantry.NewPurchase(username, it.FoodName, it.Brand, it.Unit, it.Quantity, prefill, shop)
	if it.FoodType != "" {
		p.FoodType = it.FoodType
	}
	if it.Weight > 0 {
		p.Weight = it.Weight
	}
	if it.WeightUnit != "" {
		p.WUnit = it.WeightUnit
	}
	if it.Price > 0 {
		p.Price = it.Price
	}
	if d := pantry.ParseDate(it.ExpiryDate, loc); d.Valid {
		p.ExpiryDate = d.Time
	}
	return p
}

func (a *API) purchases(w http.ResponseWriter, r *http.Request, u users.User) {
	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	shop := a.today()
	if d := pantry.ParseDate(req.ShopDate, a.loc); d.Valid {
		shop = d.Time
	}

	l, ok := a.load(w, r)
	if !ok {
		return
	}
	appended := make([]pantry.Purchase, 0, len(req.Items))
	for _, it := range req.Items {
		p := it.toPurchase(l, u.Username, shop, a.loc)
		if err := a.store.Append(r.Context(), p); err != nil {
			a.log.Error("append purchase failed", "user", u.Username, "food", p.FoodName, "err", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":    "ledger append failed",
				"appended": len(appended),
			})
			return
		}
		appended = append(appended, p)
	}
	a.log.Info("purchases appended", "user", u.Username, "rows", len(appended))
	writeJSON(w, http.StatusCreated, map[string]any{"appended": len(appended)})
}

func (a *API) dashboard(w http.ResponseWriter, r *http.Request, u users.User) {
	l, ok := a.load(w, r)
	if !ok {
		return
	}
	defer metrics.Track("dashboard")()
	d := analytics.BuildDashboard(l, u.Username, a.today(), a.factor)
	writeJSON(w, http.StatusOK, map[string]any{
		"display_name": a.users.DisplayName(u.Username),
		"dashboard":    d,
	})
}

func (a *API) trend(w http.ResponseWriter, r *http.Request, u users.User) {
	to := a.today()
	from := to.AddDate(0, 0, -analytics.UsageWindowDays)
	q := r.URL.Query()
	for key, dst := range map[string]*time.Time{"from": &from, "to": &to} {
		s := q.Get(key)
		if s == "" {
			continue
		}
		d := pantry.ParseDate(s, a.loc)
		if !d.Valid {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be YYYY-MM-DD", key))
			return
		}
		*dst = d.Time
	}
	l, ok := a.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":  from.Format(pantry.DateLayout),
		"to":    to.Format(pantry.DateLayout),
		"daily": analytics.UsageTrend(l, u.Username, from, to),
	})
}

type subtractRequest struct {
	FoodName string  `json:"food_name" validate:"required"`
	Brand    string  `json:"brand"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Trashed  bool    `json:"trashed"`
}

// subtract возвращает новую версию строки; в хранилище ничего не пишется.
func (a *API) subtract(w http.ResponseWriter, r *http.Request, u users.User) {
	var req subtractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, ok := a.load(w, r)
	if !ok {
		return
	}
	next, row, err := l.Subtract(u.Username, req.FoodName, req.Brand, req.Quantity, req.Trashed)
	switch {
	case errors.Is(err, pantry.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, pantry.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, unit := next.Available(u.Username, req.FoodName, req.Brand)
	writeJSON(w, http.StatusOK, map[string]any{
		"row":       row,
		"available": total,
		"unit":      unit,
	})
}

type askRequest struct {
	Kind     string `json:"kind" validate:"required"`
	Question string `json:"question" validate:"required_if=Kind question"`
}

func (a *API) ask(w http.ResponseWriter, r *http.Request, u users.User) {
	var req askRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := advisor.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, ok := a.load(w, r)
	if !ok {
		return
	}
	items := advisor.PantryItems(l, u.Username, a.today())
	prompt := advisor.BuildPrompt(a.users.DisplayName(u.Username), items, kind, req.Question)

	answer, err := a.advisor.Ask(r.Context(), prompt)
	switch {
	case errors.Is(err, advisor.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		a.log.Error("advisor failed", "user", u.Username, "err", err)
		writeError(w, http.StatusBadGateway, "advisor unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (a *API) report(w http.ResponseWriter, r *http.Request, u users.User) {
	l, ok := a.load(w, r)
	if !ok {
		return
	}
	ref := a.today()
	data, err := report.Build(report.Input{
		User:        u.Username,
		DisplayName: a.users.DisplayName(u.Username),
		Generated:   a.now().In(a.loc),
		Dashboard:   analytics.BuildDashboard(l, u.Username, ref, a.factor),
		Expiring:    analytics.ExpiringWithin(l, u.Username, defaultDays, ref),
		Grocery:     analytics.Recommend(l, u.Username, defaultDays, ref),
	})
	if err != nil {
		a.log.Error("report build failed", "user", u.Username, "err", err)
		writeError(w, http.StatusInternalServerError, "report failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(u.Username, a.now().In(a.loc))))
	_, _ = w.Write(data)
}

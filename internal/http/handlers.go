package http

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"hisaab/internal/core"
)

// dashboardView is the fully rendered data behind the dashboard partial.
// It is what gets cached, so a cache hit skips both store reads and
// aggregation.
type dashboardView struct {
	Owner        string
	Year         int
	Month        int
	MonthName    string
	TotalIncome  string
	TotalExpense string
	Balance      string
	Rows         []breakdownRow
	Items        []historyItem
}

type breakdownRow struct {
	Name   string
	Amount string
	Width  int
}

type historyItem struct {
	Position    int
	Date        string
	Kind        string
	Category    string
	Amount      string
	Description string
}

func ownerTitle(owner string) string {
	if owner == "" {
		return ""
	}
	runes := []rune(owner)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func ownerParam(s string) string {
	return strings.ToLower(sanitizeInput(s))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	owner := ownerParam(r.URL.Query().Get("owner"))
	now := time.Now()
	data := struct {
		Owner             string
		OwnerTitle        string
		ExpenseCategories []string
		IncomeCategories  []string
		Today             string
		Year              int
		Month             int
	}{
		Owner:             owner,
		OwnerTitle:        ownerTitle(owner),
		ExpenseCategories: s.taxonomy.Categories(core.KindExpense),
		IncomeCategories:  s.taxonomy.Categories(core.KindIncome),
		Today:             core.Today().String(),
		Year:              now.Year(),
		Month:             int(now.Month()),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	owner := ownerParam(r.Form.Get("owner"))
	if owner == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Missing owner</div>`))
		return
	}

	kind, err := core.ParseKind(r.Form.Get("kind"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid kind</div>`))
		return
	}

	category := sanitizeInput(r.Form.Get("category"))
	if !s.taxonomy.Allowed(kind, category) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Unknown category: ` + template.HTMLEscapeString(category) + `</div>`))
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseAmount(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}

	date := core.Today()
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		date, err = core.ParseDate(v)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Invalid date</div>`))
			return
		}
	}

	txn := core.Transaction{
		Kind:        kind,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: sanitizeInput(r.Form.Get("description")),
	}
	saved, err := s.ledger.Append(r.Context(), owner, txn)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction append error", "error", err, "owner", owner, "amount", cents)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to save the transaction</div>`))
		return
	}

	s.invalidateDashboard(owner, saved.Date.Year(), saved.Date.Month())
	w.Header().Set("HX-Trigger", transactionChangedTrigger(owner, saved.Date.Year(), saved.Date.Month()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded ` + template.HTMLEscapeString(saved.Kind.Title()) +
		`: ` + formatRupees(saved.Amount.Cents) +
		` (` + template.HTMLEscapeString(saved.Category) + `)</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	owner := ownerParam(r.Form.Get("owner"))
	year, _ := strconv.Atoi(r.Form.Get("year"))
	month, _ := strconv.Atoi(r.Form.Get("month"))
	position, err := strconv.Atoi(r.Form.Get("position"))
	if owner == "" || err != nil || position < 1 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid delete request</div>`))
		return
	}

	// Rebuild the same view the dashboard rendered so the position lines
	// up with the row the user clicked.
	view, err := s.monthView(r.Context(), owner, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Load ledger error", "error", err, "owner", owner)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to load the ledger</div>`))
		return
	}

	removed, err := s.ledger.DeleteAt(r.Context(), owner, view, position)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "owner", owner, "position", position)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to delete the transaction</div>`))
		return
	}

	s.invalidateDashboard(owner, year, month)
	w.Header().Set("HX-Trigger", transactionChangedTrigger(owner, year, month))
	w.WriteHeader(http.StatusOK)
	if removed == 0 {
		_, _ = w.Write([]byte(`<div class="error">Transaction no longer exists</div>`))
		return
	}
	_, _ = w.Write([]byte(`<div class="success">Transaction deleted</div>`))
}

// monthView is the dashboard's display order: the month's transactions,
// newest first.
func (s *Server) monthView(ctx context.Context, owner string, year, month int) ([]core.Transaction, error) {
	txns, err := s.ledger.Filter(ctx, owner, core.Filter{Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	return core.SortByDate(txns, true), nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	now := time.Now()
	owner := ownerParam(r.URL.Query().Get("owner"))
	year := now.Year()
	month := int(now.Month())
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if month < 1 || month > 12 {
		slog.WarnContext(r.Context(), "Invalid month parameter", "year", year, "month", month, "corrected_to", int(now.Month()))
		month = int(now.Month())
	}

	data, err := s.getDashboard(r.Context(), owner, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard error", "error", err, "owner", owner, "year", year, "month", month)
		_, _ = w.Write([]byte(`<section id="dashboard-body" class="dashboard"><div class="placeholder">Failed to load the dashboard</div></section>`))
		return
	}
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard-body" class="dashboard"><div class="placeholder">Balance: ` + data.Balance + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html", "year", year, "month", month)
		_, _ = w.Write([]byte(`<section id="dashboard-body" class="dashboard"><div class="placeholder">Failed to render the dashboard</div></section>`))
	}
}

func (s *Server) getDashboard(ctx context.Context, owner string, year, month int) (dashboardView, error) {
	key := dashCacheKey(owner, year, month)
	if data, found := s.dashCache.Get(key); found {
		slog.DebugContext(ctx, "Dashboard cache hit", "owner", owner, "year", year, "month", month)
		return data, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	summary, breakdown, err := s.ledger.Overview(cctx, owner, year, month)
	if err != nil {
		return dashboardView{}, fmt.Errorf("month overview (owner=%s, year=%d, month=%d): %w", owner, year, month, err)
	}
	items, err := s.monthView(cctx, owner, year, month)
	if err != nil {
		return dashboardView{}, fmt.Errorf("month history (owner=%s, year=%d, month=%d): %w", owner, year, month, err)
	}

	data := dashboardView{
		Owner:        owner,
		Year:         year,
		Month:        month,
		MonthName:    time.Month(month).String(),
		TotalIncome:  formatRupees(summary.TotalIncome.Cents),
		TotalExpense: formatRupees(summary.TotalExpense.Cents),
		Balance:      formatRupees(summary.Balance.Cents),
	}

	var maxCents int64
	for _, row := range breakdown {
		if row.Amount.Cents > maxCents {
			maxCents = row.Amount.Cents
		}
	}
	for _, row := range breakdown {
		width := 0
		if maxCents > 0 && row.Amount.Cents > 0 {
			width = int((row.Amount.Cents*100 + maxCents/2) / maxCents)
			if width < 2 { // keep tiny slices visible
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, breakdownRow{Name: row.Name, Amount: formatRupees(row.Amount.Cents), Width: width})
	}

	for i, t := range items {
		data.Items = append(data.Items, historyItem{
			Position:    i + 1,
			Date:        t.Date.String(),
			Kind:        t.Kind.Title(),
			Category:    t.Category,
			Amount:      formatRupees(t.Amount.Cents),
			Description: template.HTMLEscapeString(t.Description),
		})
	}

	s.dashCache.Set(key, data)
	slog.DebugContext(ctx, "Dashboard cached", "owner", owner, "year", year, "month", month, "items", len(data.Items))
	return data, nil
}

func transactionChangedTrigger(owner string, year, month int) string {
	payload, err := json.Marshal(map[string]any{
		"transaction:changed": map[string]any{"owner": owner, "year": year, "month": month},
	})
	if err != nil {
		return `{"transaction:changed": {}}`
	}
	return string(payload)
}

package http

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/excel"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"

	"github.com/go-chi/chi/v5"
)

type createStockRequest struct {
	EntryDate domain.Date `json:"entry_date"`
	Quantity  int         `json:"quantity"`
	OrderID   int64       `json:"order_id"`
}

type updateStockRequest struct {
	EntryDate domain.Date  `json:"entry_date"`
	ExitDate  *domain.Date `json:"exit_date"`
	Quantity  int          `json:"quantity"`
	OrderID   int64        `json:"order_id"`
}

type stockExitRequest struct {
	ExitDate domain.Date `json:"exit_date"`
	Quantity int         `json:"quantity"`
}

func (h *Handler) CreateStock(w http.ResponseWriter, r *http.Request) {
	var req createStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.CreateEntry(r.Context(), req.EntryDate, req.Quantity, req.OrderID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := r.URL.Query()
	orderID, err := parseOptionalInt64(query.Get("order_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	openOnly := false
	if raw := strings.TrimSpace(query.Get("open")); raw != "" {
		openOnly, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "open must be true or false")
			return
		}
	}

	items, err := h.svc.ListStocks(r.Context(), repository.StockListFilter{
		OrderID:  orderID,
		OpenOnly: openOnly,
		Limit:    page.limit,
		Offset:   page.offset,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeList(w, items)
}

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := h.svc.GetStock(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.svc.UpdateStock(r.Context(), id, repository.StockInput{
		EntryDate: req.EntryDate,
		ExitDate:  req.ExitDate,
		Quantity:  req.Quantity,
		OrderID:   req.OrderID,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) RecordStockExit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req stockExitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.svc.RecordExit(r.Context(), id, req.ExitDate, req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteStock(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "stock entry deleted"})
}

func (h *Handler) ImportStockExcel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	rows, failures, err := excel.ParseStockEntryRows(file)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result := domain.StockImportResult{TotalRows: len(rows)}
	if len(rows) > 0 {
		result, err = h.svc.ImportEntries(r.Context(), rows)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}
	result.TotalRows += len(failures)
	result.Failed = append(failures, result.Failed...)
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].RowNumber < result.Failed[j].RowNumber
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"file_name":  header.Filename,
		"total_rows": result.TotalRows,
		"created":    result.Created,
		"failed":     result.Failed,
	})
}

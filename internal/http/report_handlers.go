package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/excel"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/service"
)

func (h *Handler) StockSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.StockSummary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if wantsExcel(r) {
		var buf bytes.Buffer
		if err := excel.WriteStockSummary(&buf, rows); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeWorkbook(w, "stock_summary", &buf)
		return
	}
	writeList(w, rows)
}

func (h *Handler) LowStockAlerts(w http.ResponseWriter, r *http.Request) {
	threshold := service.DefaultLowStockThreshold
	if raw := strings.TrimSpace(r.URL.Query().Get("threshold")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			writeError(w, http.StatusBadRequest, "threshold must be an integer greater than or equal to 1")
			return
		}
		threshold = value
	}

	alerts, err := h.svc.LowStockAlerts(r.Context(), threshold)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if wantsExcel(r) {
		var buf bytes.Buffer
		if err := excel.WriteLowStockAlerts(&buf, alerts); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeWorkbook(w, "low_stock_alerts", &buf)
		return
	}
	writeList(w, alerts)
}

func (h *Handler) StockMovement(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, err := parseRequiredDate(query.Get("startDate"), "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseRequiredDate(query.Get("endDate"), "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.svc.StockMovement(r.Context(), start, end)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if wantsExcel(r) {
		var buf bytes.Buffer
		if err := excel.WriteStockMovement(&buf, events); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeWorkbook(w, "stock_movement", &buf)
		return
	}
	writeList(w, events)
}

func writeWorkbook(w http.ResponseWriter, name string, buf *bytes.Buffer) {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", excel.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

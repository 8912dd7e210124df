package http

import (
	"net/http"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"

	"github.com/go-chi/chi/v5"
)

type orderRequest struct {
	OrderDate       domain.Date `json:"order_date"`
	ProductCode     string      `json:"product_code"`
	ProductName     string      `json:"product_name"`
	QuantityOrdered int         `json:"quantity_ordered"`
	SupplierID      int64       `json:"supplier_id"`
	PersonnelID     int64       `json:"personnel_id"`
}

func (req orderRequest) input() repository.OrderInput {
	return repository.OrderInput{
		OrderDate:       req.OrderDate,
		ProductCode:     req.ProductCode,
		ProductName:     req.ProductName,
		QuantityOrdered: req.QuantityOrdered,
		SupplierID:      req.SupplierID,
		PersonnelID:     req.PersonnelID,
	}
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.CreateOrder(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := r.URL.Query()
	personnelID, err := parseOptionalInt64(query.Get("personnel_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	supplierID, err := parseOptionalInt64(query.Get("supplier_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.listOrders(w, r, repository.OrderListFilter{
		PersonnelID: personnelID,
		SupplierID:  supplierID,
		Limit:       page.limit,
		Offset:      page.offset,
	})
}

func (h *Handler) ListOrdersByPersonnel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.listOrders(w, r, repository.OrderListFilter{PersonnelID: &id, Limit: page.limit, Offset: page.offset})
}

func (h *Handler) ListOrdersBySupplier(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.listOrders(w, r, repository.OrderListFilter{SupplierID: &id, Limit: page.limit, Offset: page.offset})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, filter repository.OrderListFilter) {
	items, err := h.svc.ListOrders(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeList(w, items)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.svc.UpdateOrder(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "order deleted"})
}

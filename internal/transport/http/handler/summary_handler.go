package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lapor-fasilitas/internal/core/cache"
	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/repo"
	"lapor-fasilitas/internal/service"
	resp "lapor-fasilitas/internal/transport/http/response"
)

const (
	summaryStatsKey   = "laporan-summary:stats"
	summaryOptionsKey = "laporan-summary:filter-options"
)

type SummaryHandler struct {
	svc   *service.SummaryService
	cache *cache.Cache
}

func NewSummaryHandler(svc *service.SummaryService, ch *cache.Cache) *SummaryHandler {
	return &SummaryHandler{svc: svc, cache: ch}
}

func (h *SummaryHandler) Mount(public, protected *gin.RouterGroup) {
	public.GET("/laporan-summary/stats", h.stats)
	public.GET("/laporan-summary/filter-options", h.filterOptions)
	public.GET("/laporan-summary", h.list)
	public.GET("/laporan-summary/:id", h.get)

	protected.POST("/laporan-summary", h.create)
	protected.PUT("/laporan-summary/:id", h.update)
	protected.DELETE("/laporan-summary/:id", h.delete)
}

func (h *SummaryHandler) list(c *gin.Context) {
	f := repo.SummaryFilter{
		Status:    c.Query("status"),
		Prioritas: c.Query("prioritas"),
		Kategori:  c.Query("kategori"),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sortBy", "created_at"),
		Order:     c.DefaultQuery("order", "DESC"),
		Page:      atoiDefault(c.Query("page"), 1),
		Limit:     atoiDefault(c.Query("limit"), 10),
	}
	rows, total, err := h.svc.List(f)
	if err != nil {
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengambil data laporan summary", err)
		return
	}
	resp.OK(c, http.StatusOK, "", gin.H{
		"laporan": rows,
		"pagination": gin.H{
			"total":      total,
			"page":       f.Page,
			"limit":      f.Limit,
			"totalPages": totalPages(total, f.Limit),
		},
	})
}

func (h *SummaryHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		resp.Fail(c, http.StatusNotFound, "Laporan summary tidak ditemukan")
		return
	}
	row, err := h.svc.Get(id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, "Laporan summary tidak ditemukan")
	case err != nil:
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengambil data laporan summary", err)
	default:
		resp.OK(c, http.StatusOK, "", row)
	}
}

type summaryRequest struct {
	LaporanID            *uint     `json:"laporan_id"`
	Judul                *string   `json:"judul"`
	Kategori             *string   `json:"kategori"`
	Lokasi               *string   `json:"lokasi"`
	Pelapor              *string   `json:"pelapor"`
	Teknisi              *string   `json:"teknisi"`
	Status               *string   `json:"status"`
	Prioritas            *string   `json:"prioritas"`
	Biaya                *float64  `json:"biaya"`
	TanggalLapor         *DateTime `json:"tanggal_lapor"`
	TanggalSelesai       *DateTime `json:"tanggal_selesai"`
	LamaPenyelesaianHari *int      `json:"lama_penyelesaian_hari"`
}

func (r *summaryRequest) toInput() service.SummaryInput {
	return service.SummaryInput{
		LaporanID:            r.LaporanID,
		Judul:                r.Judul,
		Kategori:             r.Kategori,
		Lokasi:               r.Lokasi,
		Pelapor:              r.Pelapor,
		Teknisi:              r.Teknisi,
		Status:               r.Status,
		Prioritas:            r.Prioritas,
		Biaya:                r.Biaya,
		TanggalLapor:         r.TanggalLapor.Ptr(),
		TanggalSelesai:       r.TanggalSelesai.Ptr(),
		LamaPenyelesaianHari: r.LamaPenyelesaianHari,
	}
}

func (h *SummaryHandler) create(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.FailErr(c, http.StatusBadRequest, "Gagal membuat laporan summary", err)
		return
	}

	row, err := h.svc.Create(req.toInput())
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, service.ErrLaporanIDRequired):
		resp.Fail(c, http.StatusBadRequest, "Laporan ID wajib diisi")
	case errors.As(err, &ve):
		resp.FailValidation(c, ve)
	case errors.Is(err, domain.ErrDuplicate):
		resp.FailErr(c, http.StatusBadRequest, "Data sudah ada", err)
	case err != nil:
		resp.FailErr(c, http.StatusBadRequest, "Gagal membuat laporan summary", err)
	default:
		h.invalidate(c)
		resp.OK(c, http.StatusCreated, "Laporan summary berhasil dibuat", row)
	}
}

func (h *SummaryHandler) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		resp.Fail(c, http.StatusNotFound, "Laporan summary tidak ditemukan")
		return
	}
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.FailErr(c, http.StatusBadRequest, "Gagal mengupdate laporan summary", err)
		return
	}

	row, err := h.svc.Update(id, req.toInput())
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, "Laporan summary tidak ditemukan")
	case errors.As(err, &ve):
		resp.FailValidation(c, ve)
	case errors.Is(err, domain.ErrDuplicate):
		resp.FailErr(c, http.StatusBadRequest, "Data sudah ada", err)
	case err != nil:
		resp.FailErr(c, http.StatusBadRequest, "Gagal mengupdate laporan summary", err)
	default:
		h.invalidate(c)
		resp.OK(c, http.StatusOK, "Laporan summary berhasil diupdate", row)
	}
}

func (h *SummaryHandler) delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		resp.Fail(c, http.StatusNotFound, "Laporan summary tidak ditemukan")
		return
	}
	err := h.svc.Delete(id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, "Laporan summary tidak ditemukan")
	case err != nil:
		resp.FailErr(c, http.StatusInternalServerError, "Gagal menghapus laporan summary", err)
	default:
		h.invalidate(c)
		resp.OK(c, http.StatusOK, "Laporan summary berhasil dihapus", nil)
	}
}

func (h *SummaryHandler) stats(c *gin.Context) {
	load := func(context.Context) (*service.SummaryStats, error) { return h.svc.Stats() }

	var st *service.SummaryStats
	var err error
	if h.cache != nil {
		st, err = cache.GetOrLoadJSON(h.cache, c.Request.Context(), summaryStatsKey, statsTTL, load)
	} else {
		st, err = h.svc.Stats()
	}
	if err != nil {
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengambil statistik laporan", err)
		return
	}
	resp.OK(c, http.StatusOK, "", st)
}

func (h *SummaryHandler) filterOptions(c *gin.Context) {
	load := func(context.Context) (*repo.FilterOptions, error) { return h.svc.FilterOptions() }

	var opts *repo.FilterOptions
	var err error
	if h.cache != nil {
		opts, err = cache.GetOrLoadJSON(h.cache, c.Request.Context(), summaryOptionsKey, statsTTL, load)
	} else {
		opts, err = h.svc.FilterOptions()
	}
	if err != nil {
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengambil opsi filter", err)
		return
	}
	resp.OK(c, http.StatusOK, "", opts)
}

func (h *SummaryHandler) invalidate(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), summaryStatsKey, summaryOptionsKey)
	}
}

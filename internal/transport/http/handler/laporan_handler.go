package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lapor-fasilitas/internal/core/cache"
	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/repo"
	"lapor-fasilitas/internal/service"
	resp "lapor-fasilitas/internal/transport/http/response"
	"lapor-fasilitas/internal/transport/http/upload"
)

const laporanStatsKey = "laporan:stats"
const statsTTL = 30 * time.Second

type LaporanHandler struct {
	svc    *service.LaporanService
	photos *upload.Store
	cache  *cache.Cache
}

func NewLaporanHandler(svc *service.LaporanService, photos *upload.Store, ch *cache.Cache) *LaporanHandler {
	return &LaporanHandler{svc: svc, photos: photos, cache: ch}
}

func (h *LaporanHandler) Mount(public, protected *gin.RouterGroup) {
	public.GET("/laporan/stats", h.stats)
	public.GET("/laporan", h.list)
	public.GET("/laporan/user/:userId", h.listByUser)
	public.GET("/laporan/:id", h.get)

	protected.POST("/laporan", h.create)
	protected.PUT("/laporan/:id", h.update)
	protected.PATCH("/laporan/:id/status", h.updateStatus)
	protected.DELETE("/laporan/:id", h.delete)
}

func (h *LaporanHandler) list(c *gin.Context) {
	f := repo.LaporanFilter{
		Status:    c.Query("status"),
		Prioritas: c.Query("prioritas"),
		Kategori:  c.Query("kategori"),
		Search:    c.Query("search"),
		Page:      atoiDefault(c.Query("page"), 1),
		Limit:     atoiDefault(c.Query("limit"), 10),
	}
	rows, total, err := h.svc.List(f)
	if err != nil {
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengambil data laporan", err)
		return
	}
	resp.OK(c, http.StatusOK, "Data laporan berhasil diambil", gin.H{
		"laporan": rows,
		"pagination": gin.H{
			"totalItems":   total,
			"totalPages":   totalPages(total, f.Limit),
			"currentPage":  f.Page,
			"itemsPerPage": f.Limit,
		},
	})
}

func (h *LaporanHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
		return
	}
	l, err := h.svc.Get(id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
	case err != nil:
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengambil data laporan", err)
	default:
		resp.OK(c, http.StatusOK, "Data laporan berhasil diambil", l)
	}
}

func (h *LaporanHandler) listByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
		return
	}
	f := repo.LaporanFilter{
		Status:    c.Query("status"),
		PelaporID: &userID,
		Page:      atoiDefault(c.Query("page"), 1),
		Limit:     atoiDefault(c.Query("limit"), 10),
	}
	rows, total, err := h.svc.List(f)
	if err != nil {
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengambil data laporan user", err)
		return
	}
	resp.OK(c, http.StatusOK, "Data laporan user berhasil diambil", gin.H{
		"laporan": rows,
		"pagination": gin.H{
			"totalItems":   total,
			"totalPages":   totalPages(total, f.Limit),
			"currentPage":  f.Page,
			"itemsPerPage": f.Limit,
		},
	})
}

type createLaporanRequest struct {
	Judul     string   `json:"judul" form:"judul"`
	Deskripsi string   `json:"deskripsi" form:"deskripsi"`
	Kategori  *string  `json:"kategori" form:"kategori"`
	Lokasi    *string  `json:"lokasi" form:"lokasi"`
	PelaporID *uint    `json:"pelapor_id" form:"pelapor_id"`
	Prioritas string   `json:"prioritas" form:"prioritas"`
	Foto      *string  `json:"foto" form:"-"`
	Biaya     *float64 `json:"biaya" form:"biaya"`
}

// create accepts either a JSON body or a multipart form with an optional
// single `foto` image (≤5MB, jpeg/jpg/png/gif/webp).
func (h *LaporanHandler) create(c *gin.Context) {
	var req createLaporanRequest
	if err := c.ShouldBind(&req); err != nil {
		resp.FailErr(c, http.StatusBadRequest, "Gagal membuat laporan", err)
		return
	}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if fh, err := c.FormFile("foto"); err == nil && fh != nil {
			name, err := h.photos.Save(fh)
			if err != nil {
				resp.Fail(c, http.StatusBadRequest, err.Error())
				return
			}
			req.Foto = &name
		}
	}

	l, err := h.svc.Create(service.CreateLaporanInput{
		Judul:     req.Judul,
		Deskripsi: req.Deskripsi,
		Kategori:  req.Kategori,
		Lokasi:    req.Lokasi,
		PelaporID: req.PelaporID,
		Prioritas: req.Prioritas,
		Foto:      req.Foto,
		Biaya:     req.Biaya,
	})
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		resp.FailValidation(c, ve)
	case err != nil:
		resp.FailErr(c, http.StatusInternalServerError, "Gagal membuat laporan", err)
	default:
		h.invalidateStats(c)
		resp.OK(c, http.StatusCreated, "Laporan berhasil dibuat", l)
	}
}

type updateLaporanRequest struct {
	Judul          *string   `json:"judul"`
	Deskripsi      *string   `json:"deskripsi"`
	Kategori       *string   `json:"kategori"`
	Lokasi         *string   `json:"lokasi"`
	PelaporID      *uint     `json:"pelapor_id"`
	Teknisi        *string   `json:"teknisi"`
	Status         *string   `json:"status"`
	Prioritas      *string   `json:"prioritas"`
	Foto           *string   `json:"foto"`
	Biaya          *float64  `json:"biaya"`
	TanggalSelesai *DateTime `json:"tanggal_selesai"`
}

func (h *LaporanHandler) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
		return
	}
	var req updateLaporanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.FailErr(c, http.StatusBadRequest, "Gagal mengupdate laporan", err)
		return
	}

	l, err := h.svc.Update(id, service.UpdateLaporanInput{
		Judul:          req.Judul,
		Deskripsi:      req.Deskripsi,
		Kategori:       req.Kategori,
		Lokasi:         req.Lokasi,
		PelaporID:      req.PelaporID,
		Teknisi:        req.Teknisi,
		Status:         req.Status,
		Prioritas:      req.Prioritas,
		Foto:           req.Foto,
		Biaya:          req.Biaya,
		TanggalSelesai: req.TanggalSelesai.Ptr(),
	})
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
	case errors.As(err, &ve):
		resp.FailValidation(c, ve)
	case err != nil:
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengupdate laporan", err)
	default:
		h.invalidateStats(c)
		resp.OK(c, http.StatusOK, "Laporan berhasil diupdate", l)
	}
}

type updateStatusRequest struct {
	Status  string  `json:"status"`
	Teknisi *string `json:"teknisi"`
}

func (h *LaporanHandler) updateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.FailErr(c, http.StatusBadRequest, "Gagal mengupdate status laporan", err)
		return
	}

	l, err := h.svc.UpdateStatus(id, req.Status, req.Teknisi)
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		resp.FailValidation(c, ve)
	case errors.Is(err, domain.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
	case err != nil:
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengupdate status laporan", err)
	default:
		h.invalidateStats(c)
		resp.OK(c, http.StatusOK, "Status laporan berhasil diupdate", l)
	}
}

func (h *LaporanHandler) delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
		return
	}
	err := h.svc.Delete(id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, "Laporan tidak ditemukan")
	case err != nil:
		resp.FailErr(c, http.StatusInternalServerError, "Gagal menghapus laporan", err)
	default:
		h.invalidateStats(c)
		resp.OK(c, http.StatusOK, "Laporan berhasil dihapus", nil)
	}
}

func (h *LaporanHandler) stats(c *gin.Context) {
	load := func(context.Context) (*service.DashboardStats, error) { return h.svc.Stats() }

	var st *service.DashboardStats
	var err error
	if h.cache != nil {
		st, err = cache.GetOrLoadJSON(h.cache, c.Request.Context(), laporanStatsKey, statsTTL, load)
	} else {
		st, err = h.svc.Stats()
	}
	if err != nil {
		resp.FailErr(c, http.StatusInternalServerError, "Gagal mengambil dashboard statistics", err)
		return
	}
	resp.OK(c, http.StatusOK, "Dashboard statistics berhasil diambil", st)
}

func (h *LaporanHandler) invalidateStats(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), laporanStatsKey)
	}
}

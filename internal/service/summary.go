package service

import (
	"errors"
	"fmt"
	"time"

	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/repo"
)

var ErrLaporanIDRequired = errors.New("laporan_id is required")

// SummaryInput covers both create and update; on update nil fields are
// left untouched.
type SummaryInput struct {
	LaporanID            *uint
	Judul                *string
	Kategori             *string
	Lokasi               *string
	Pelapor              *string
	Teknisi              *string
	Status               *string
	Prioritas            *string
	Biaya                *float64
	TanggalLapor         *time.Time
	TanggalSelesai       *time.Time
	LamaPenyelesaianHari *int
}

type SummaryStats struct {
	TotalLaporan         int64                 `json:"total_laporan"`
	StatusDistribution   []repo.StatusCount    `json:"status_distribution"`
	PrioritasDistribusi  []repo.PrioritasCount `json:"prioritas_distribution"`
	AvgPenyelesaianHari  string                `json:"avg_penyelesaian_hari"`
	TotalBiaya           string                `json:"total_biaya"`
	LaporanPerBulan      []repo.MonthlyCount   `json:"laporan_per_bulan"`
	TopKategori          []repo.KategoriCount  `json:"top_kategori"`
	TopTeknisi           []repo.TeknisiCount   `json:"top_teknisi"`
}

type SummaryService struct {
	summaries *repo.SummaryRepo
	now       func() time.Time
}

func NewSummaryService(summaries *repo.SummaryRepo) *SummaryService {
	return &SummaryService{summaries: summaries, now: time.Now}
}

func (s *SummaryService) List(f repo.SummaryFilter) ([]domain.LaporanSummary, int64, error) {
	return s.summaries.List(f)
}

func (s *SummaryService) Get(id uint) (*domain.LaporanSummary, error) {
	row, err := s.summaries.FindByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	return row, nil
}

func (s *SummaryService) Create(in SummaryInput) (*domain.LaporanSummary, error) {
	if in.LaporanID == nil || *in.LaporanID == 0 {
		return nil, ErrLaporanIDRequired
	}
	row := &domain.LaporanSummary{
		LaporanID:            *in.LaporanID,
		Judul:                in.Judul,
		Kategori:             in.Kategori,
		Lokasi:               in.Lokasi,
		Pelapor:              in.Pelapor,
		Teknisi:              in.Teknisi,
		Status:               domain.SummaryStatusPending,
		Prioritas:            domain.SummaryPrioMedium,
		Biaya:                in.Biaya,
		TanggalLapor:         in.TanggalLapor,
		TanggalSelesai:       in.TanggalSelesai,
		LamaPenyelesaianHari: in.LamaPenyelesaianHari,
	}
	if in.Status != nil {
		row.Status = *in.Status
	}
	if in.Prioritas != nil {
		row.Prioritas = *in.Prioritas
	}
	return s.validateAndStore(row, s.summaries.Create)
}

func (s *SummaryService) Update(id uint, in SummaryInput) (*domain.LaporanSummary, error) {
	row, err := s.summaries.FindByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}

	if in.LaporanID != nil {
		row.LaporanID = *in.LaporanID
	}
	if in.Judul != nil {
		row.Judul = in.Judul
	}
	if in.Kategori != nil {
		row.Kategori = in.Kategori
	}
	if in.Lokasi != nil {
		row.Lokasi = in.Lokasi
	}
	if in.Pelapor != nil {
		row.Pelapor = in.Pelapor
	}
	if in.Teknisi != nil {
		row.Teknisi = in.Teknisi
	}
	if in.Status != nil {
		row.Status = *in.Status
	}
	if in.Prioritas != nil {
		row.Prioritas = *in.Prioritas
	}
	if in.Biaya != nil {
		row.Biaya = in.Biaya
	}
	if in.TanggalLapor != nil {
		row.TanggalLapor = in.TanggalLapor
	}
	if in.TanggalSelesai != nil {
		row.TanggalSelesai = in.TanggalSelesai
	}
	if in.LamaPenyelesaianHari != nil {
		row.LamaPenyelesaianHari = in.LamaPenyelesaianHari
	}

	// A date change always recomputes the day count, merging the patched
	// date with the stored one.
	if in.TanggalLapor != nil || in.TanggalSelesai != nil {
		row.LamaPenyelesaianHari = row.HitungLamaPenyelesaian()
	}

	return s.validateAndStore(row, s.summaries.Save)
}

func (s *SummaryService) validateAndStore(row *domain.LaporanSummary, store func(*domain.LaporanSummary) error) (*domain.LaporanSummary, error) {
	if fields := row.Validate(s.now()); len(fields) > 0 {
		return nil, domain.NewValidationError("Validasi gagal", fields...)
	}
	row.ApplySaveRules()
	if err := store(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *SummaryService) Delete(id uint) error {
	row, err := s.summaries.FindByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return domain.ErrNotFound
	}
	return s.summaries.Delete(id)
}

func (s *SummaryService) Stats() (*SummaryStats, error) {
	st := &SummaryStats{}
	var err error
	if st.TotalLaporan, err = s.summaries.CountAll(); err != nil {
		return nil, err
	}
	if st.StatusDistribution, err = s.summaries.CountGroupedByStatus(); err != nil {
		return nil, err
	}
	if st.PrioritasDistribusi, err = s.summaries.CountGroupedByPrioritas(); err != nil {
		return nil, err
	}
	avg, err := s.summaries.AvgPenyelesaianHari()
	if err != nil {
		return nil, err
	}
	st.AvgPenyelesaianHari = fmt.Sprintf("%.2f", avg)
	sum, err := s.summaries.TotalBiaya()
	if err != nil {
		return nil, err
	}
	st.TotalBiaya = fmt.Sprintf("%.2f", sum)
	if st.LaporanPerBulan, err = s.summaries.MonthlyCounts(s.now()); err != nil {
		return nil, err
	}
	if st.TopKategori, err = s.summaries.TopKategori(5); err != nil {
		return nil, err
	}
	if st.TopTeknisi, err = s.summaries.TopTeknisi(5); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SummaryService) FilterOptions() (*repo.FilterOptions, error) {
	return s.summaries.FilterOptions()
}

package repo

import (
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"lapor-fasilitas/internal/domain"
)

type SummaryFilter struct {
	Status    string
	Prioritas string
	Kategori  string // exact match
	Search    string // case-insensitive over judul/pelapor/teknisi/lokasi
	SortBy    string
	Order     string
	Page      int
	Limit     int
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TeknisiCount struct {
	Teknisi string `json:"teknisi"`
	Count   int64  `json:"count"`
}

type MonthlyCount struct {
	Bulan  string `json:"bulan"`
	Jumlah int64  `json:"jumlah"`
}

type FilterOptions struct {
	Status    []string `json:"status"`
	Prioritas []string `json:"prioritas"`
	Kategori  []string `json:"kategori"`
	Teknisi   []string `json:"teknisi"`
}

// sortableColumns whitelists sortBy input before it reaches the ORDER BY.
var sortableColumns = map[string]bool{
	"id": true, "laporan_id": true, "judul": true, "kategori": true,
	"lokasi": true, "pelapor": true, "teknisi": true, "status": true,
	"prioritas": true, "biaya": true, "tanggal_lapor": true,
	"tanggal_selesai": true, "lama_penyelesaian_hari": true,
	"created_at": true, "updated_at": true,
}

type SummaryRepo struct{ db *gorm.DB }

func NewSummaryRepo(db *gorm.DB) *SummaryRepo { return &SummaryRepo{db: db} }

func (r *SummaryRepo) applyFilter(f SummaryFilter) *gorm.DB {
	q := r.db.Model(&domain.LaporanSummary{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Prioritas != "" {
		q = q.Where("prioritas = ?", f.Prioritas)
	}
	if f.Kategori != "" {
		q = q.Where("kategori = ?", f.Kategori)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(judul) LIKE ? OR LOWER(pelapor) LIKE ? OR LOWER(teknisi) LIKE ? OR LOWER(lokasi) LIKE ?",
			like, like, like, like,
		)
	}
	return q
}

func (r *SummaryRepo) List(f SummaryFilter) ([]domain.LaporanSummary, int64, error) {
	q := r.applyFilter(f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col := f.SortBy
	if !sortableColumns[col] {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}

	var rows []domain.LaporanSummary
	err := q.Order(col + " " + dir).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *SummaryRepo) FindByID(id uint) (*domain.LaporanSummary, error) {
	var s domain.LaporanSummary
	err := r.db.First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *SummaryRepo) Create(s *domain.LaporanSummary) error {
	if err := r.db.Create(s).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *SummaryRepo) Save(s *domain.LaporanSummary) error { return r.db.Save(s).Error }

func (r *SummaryRepo) Delete(id uint) error {
	return r.db.Delete(&domain.LaporanSummary{}, "id = ?", id).Error
}

func (r *SummaryRepo) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&domain.LaporanSummary{}).Count(&n).Error
	return n, err
}

func (r *SummaryRepo) CountGroupedByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&domain.LaporanSummary{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *SummaryRepo) CountGroupedByPrioritas() ([]PrioritasCount, error) {
	var rows []PrioritasCount
	err := r.db.Model(&domain.LaporanSummary{}).
		Select("prioritas, COUNT(id) AS count").
		Group("prioritas").
		Scan(&rows).Error
	return rows, err
}

func (r *SummaryRepo) AvgPenyelesaianHari() (float64, error) {
	var avg sql.NullFloat64
	err := r.db.Model(&domain.LaporanSummary{}).
		Select("AVG(lama_penyelesaian_hari)").
		Where("lama_penyelesaian_hari IS NOT NULL").
		Scan(&avg).Error
	return avg.Float64, err
}

func (r *SummaryRepo) TotalBiaya() (float64, error) {
	var sum sql.NullFloat64
	err := r.db.Model(&domain.LaporanSummary{}).
		Select("SUM(biaya)").
		Where("biaya IS NOT NULL").
		Scan(&sum).Error
	return sum.Float64, err
}

// MonthlyCounts buckets rows of the trailing six calendar months by
// tanggal_lapor, ascending. Bucketing happens in Go so the query stays
// portable across the postgres store and the sqlite test database.
func (r *SummaryRepo) MonthlyCounts(now time.Time) ([]MonthlyCount, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -6, 0)

	var dates []time.Time
	err := r.db.Model(&domain.LaporanSummary{}).
		Where("tanggal_lapor IS NOT NULL AND tanggal_lapor >= ?", start).
		Pluck("tanggal_lapor", &dates).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]int64{}
	for _, d := range dates {
		buckets[d.Format("2006-01")]++
	}
	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthlyCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlyCount{Bulan: m, Jumlah: buckets[m]})
	}
	return out, nil
}

func (r *SummaryRepo) TopKategori(limit int) ([]KategoriCount, error) {
	var rows []KategoriCount
	err := r.db.Model(&domain.LaporanSummary{}).
		Select("kategori, COUNT(id) AS count").
		Where("kategori IS NOT NULL").
		Group("kategori").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *SummaryRepo) TopTeknisi(limit int) ([]TeknisiCount, error) {
	var rows []TeknisiCount
	err := r.db.Model(&domain.LaporanSummary{}).
		Select("teknisi, COUNT(id) AS count").
		Where("teknisi IS NOT NULL").
		Group("teknisi").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// FilterOptions lists the distinct non-null values currently present,
// for populating client-side filter controls.
func (r *SummaryRepo) FilterOptions() (*FilterOptions, error) {
	opts := &FilterOptions{}
	for _, p := range []struct {
		col  string
		dest *[]string
	}{
		{"status", &opts.Status},
		{"prioritas", &opts.Prioritas},
		{"kategori", &opts.Kategori},
		{"teknisi", &opts.Teknisi},
	} {
		err := r.db.Model(&domain.LaporanSummary{}).
			Distinct(p.col).
			Where(p.col+" IS NOT NULL").
			Pluck(p.col, p.dest).Error
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// isDupKey sniffs driver-specific unique violation errors without tying
// the check to one dialect's error type.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

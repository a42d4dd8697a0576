package repo

import (
	"errors"

	"gorm.io/gorm"

	"lapor-fasilitas/internal/domain"
)

type LaporanFilter struct {
	Status    string
	Prioritas string
	Kategori  string // substring match
	Search    string // substring over judul/deskripsi/lokasi
	PelaporID *uint
	Page      int
	Limit     int
}

type PrioritasCount struct {
	Prioritas string `json:"prioritas"`
	Count     int64  `json:"count"`
}

type KategoriCount struct {
	Kategori string `json:"kategori"`
	Count    int64  `json:"count"`
}

type LaporanRepo struct{ db *gorm.DB }

func NewLaporanRepo(db *gorm.DB) *LaporanRepo { return &LaporanRepo{db: db} }

func withPelapor(db *gorm.DB) *gorm.DB {
	return db.Preload("User")
}

func (r *LaporanRepo) applyFilter(f LaporanFilter) *gorm.DB {
	q := r.db.Model(&domain.Laporan{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Prioritas != "" {
		q = q.Where("prioritas = ?", f.Prioritas)
	}
	if f.Kategori != "" {
		q = q.Where("kategori LIKE ?", "%"+f.Kategori+"%")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("judul LIKE ? OR deskripsi LIKE ? OR lokasi LIKE ?", like, like, like)
	}
	if f.PelaporID != nil {
		q = q.Where("pelapor_id = ?", *f.PelaporID)
	}
	return q
}

// List returns one page ordered by tanggal_lapor descending plus the
// unpaged total.
func (r *LaporanRepo) List(f LaporanFilter) ([]domain.Laporan, int64, error) {
	q := r.applyFilter(f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Laporan
	err := q.Scopes(withPelapor).
		Order("tanggal_lapor desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *LaporanRepo) FindByID(id uint) (*domain.Laporan, error) {
	var l domain.Laporan
	err := r.db.Scopes(withPelapor).First(&l, "laporan_baru.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

// Create and Save skip the User association: pelapor rows are managed
// by the auth module, laporan writes only touch pelapor_id.
func (r *LaporanRepo) Create(l *domain.Laporan) error { return r.db.Omit("User").Create(l).Error }

func (r *LaporanRepo) Save(l *domain.Laporan) error { return r.db.Omit("User").Save(l).Error }

func (r *LaporanRepo) Delete(id uint) error {
	return r.db.Delete(&domain.Laporan{}, "id = ?", id).Error
}

func (r *LaporanRepo) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Laporan{}).Count(&n).Error
	return n, err
}

func (r *LaporanRepo) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Laporan{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *LaporanRepo) CountGroupedByPrioritas() ([]PrioritasCount, error) {
	var rows []PrioritasCount
	err := r.db.Model(&domain.Laporan{}).
		Select("prioritas, COUNT(prioritas) AS count").
		Group("prioritas").
		Scan(&rows).Error
	return rows, err
}

func (r *LaporanRepo) CountGroupedByKategori() ([]KategoriCount, error) {
	var rows []KategoriCount
	err := r.db.Model(&domain.Laporan{}).
		Select("kategori, COUNT(kategori) AS count").
		Where("kategori IS NOT NULL").
		Group("kategori").
		Scan(&rows).Error
	return rows, err
}

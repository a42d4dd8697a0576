package service

import (
	"time"

	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/repo"
)

type CreateLaporanInput struct {
	Judul     string
	Deskripsi string
	Kategori  *string
	Lokasi    *string
	PelaporID *uint
	Prioritas string
	Foto      *string
	Biaya     *float64
}

// UpdateLaporanInput is a partial patch: nil fields stay untouched.
type UpdateLaporanInput struct {
	Judul          *string
	Deskripsi      *string
	Kategori       *string
	Lokasi         *string
	PelaporID      *uint
	Teknisi        *string
	Status         *string
	Prioritas      *string
	Foto           *string
	Biaya          *float64
	TanggalSelesai *time.Time
}

type DashboardStats struct {
	Total    int64 `json:"total"`
	ByStatus struct {
		Pending int64 `json:"pending"`
		Proses  int64 `json:"proses"`
		Selesai int64 `json:"selesai"`
	} `json:"byStatus"`
	ByPrioritas []repo.PrioritasCount `json:"byPrioritas"`
	ByKategori  []repo.KategoriCount  `json:"byKategori"`
}

type LaporanService struct {
	laporan *repo.LaporanRepo
	users   *repo.UserRepo
	now     func() time.Time
}

func NewLaporanService(laporan *repo.LaporanRepo, users *repo.UserRepo) *LaporanService {
	return &LaporanService{laporan: laporan, users: users, now: time.Now}
}

func (s *LaporanService) List(f repo.LaporanFilter) ([]domain.Laporan, int64, error) {
	return s.laporan.List(f)
}

func (s *LaporanService) Get(id uint) (*domain.Laporan, error) {
	l, err := s.laporan.FindByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// Create stores a new report. Status is forced to pending regardless of
// input; a supplied pelapor_id must reference an existing user.
func (s *LaporanService) Create(in CreateLaporanInput) (*domain.Laporan, error) {
	if in.Judul == "" || in.Deskripsi == "" {
		return nil, domain.NewValidationError("Judul dan deskripsi harus diisi")
	}
	if err := s.checkPelapor(in.PelaporID); err != nil {
		return nil, err
	}
	prioritas := in.Prioritas
	if prioritas == "" {
		prioritas = domain.PrioritasSedang
	}
	l := &domain.Laporan{
		Judul:     in.Judul,
		Deskripsi: in.Deskripsi,
		Kategori:  in.Kategori,
		Lokasi:    in.Lokasi,
		PelaporID: in.PelaporID,
		Prioritas: prioritas,
		Foto:      in.Foto,
		Biaya:     in.Biaya,
		Status:    domain.StatusPending,
	}
	if err := s.laporan.Create(l); err != nil {
		return nil, err
	}
	return s.laporan.FindByID(l.ID)
}

func (s *LaporanService) Update(id uint, in UpdateLaporanInput) (*domain.Laporan, error) {
	l, err := s.laporan.FindByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if in.PelaporID != nil {
		if err := s.checkPelapor(in.PelaporID); err != nil {
			return nil, err
		}
		l.PelaporID = in.PelaporID
	}

	if in.Judul != nil {
		l.Judul = *in.Judul
	}
	if in.Deskripsi != nil {
		l.Deskripsi = *in.Deskripsi
	}
	if in.Kategori != nil {
		l.Kategori = in.Kategori
	}
	if in.Lokasi != nil {
		l.Lokasi = in.Lokasi
	}
	if in.Teknisi != nil {
		l.Teknisi = in.Teknisi
	}
	if in.Prioritas != nil {
		l.Prioritas = *in.Prioritas
	}
	if in.Foto != nil {
		l.Foto = in.Foto
	}
	if in.Biaya != nil {
		l.Biaya = in.Biaya
	}
	if in.TanggalSelesai != nil {
		l.TanggalSelesai = in.TanggalSelesai
	}
	if in.Status != nil {
		s.applyStatus(l, *in.Status)
	}

	if err := s.laporan.Save(l); err != nil {
		return nil, err
	}
	return s.laporan.FindByID(id)
}

// UpdateStatus is the status-only patch used by the dashboard.
func (s *LaporanService) UpdateStatus(id uint, status string, teknisi *string) (*domain.Laporan, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.NewValidationError("Status tidak valid. Gunakan: pending, proses, atau selesai")
	}
	l, err := s.laporan.FindByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if teknisi != nil {
		l.Teknisi = teknisi
	}
	s.applyStatus(l, status)
	if err := s.laporan.Save(l); err != nil {
		return nil, err
	}
	return s.laporan.FindByID(id)
}

// applyStatus stamps tanggal_selesai server-side exactly once, on the
// transition into selesai. An already-selesai row keeps its timestamp.
func (s *LaporanService) applyStatus(l *domain.Laporan, status string) {
	if status == domain.StatusSelesai && l.Status != domain.StatusSelesai {
		t := s.now()
		l.TanggalSelesai = &t
	}
	l.Status = status
}

func (s *LaporanService) Delete(id uint) error {
	l, err := s.laporan.FindByID(id)
	if err != nil {
		return err
	}
	if l == nil {
		return domain.ErrNotFound
	}
	return s.laporan.Delete(id)
}

func (s *LaporanService) Stats() (*DashboardStats, error) {
	st := &DashboardStats{}
	var err error
	if st.Total, err = s.laporan.CountAll(); err != nil {
		return nil, err
	}
	if st.ByStatus.Pending, err = s.laporan.CountByStatus(domain.StatusPending); err != nil {
		return nil, err
	}
	if st.ByStatus.Proses, err = s.laporan.CountByStatus(domain.StatusProses); err != nil {
		return nil, err
	}
	if st.ByStatus.Selesai, err = s.laporan.CountByStatus(domain.StatusSelesai); err != nil {
		return nil, err
	}
	if st.ByPrioritas, err = s.laporan.CountGroupedByPrioritas(); err != nil {
		return nil, err
	}
	if st.ByKategori, err = s.laporan.CountGroupedByKategori(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *LaporanService) checkPelapor(id *uint) error {
	if id == nil {
		return nil
	}
	u, err := s.users.FindByID(*id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NewValidationError("User pelapor tidak ditemukan")
	}
	return nil
}

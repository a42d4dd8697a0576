package domain

import (
	"math"
	"time"
)

// Status/priority vocabularies of the summary store. They intentionally
// differ from the operational laporan enums: the summary table is an
// independently maintained analytics projection and no translation layer
// exists between the two.
const (
	SummaryStatusPending   = "pending"
	SummaryStatusProgress  = "progress"
	SummaryStatusCompleted = "completed"
	SummaryStatusCancelled = "cancelled"
	SummaryStatusOnHold    = "on_hold"
)

const (
	SummaryPrioLow      = "low"
	SummaryPrioMedium   = "medium"
	SummaryPrioHigh     = "high"
	SummaryPrioUrgent   = "urgent"
	SummaryPrioCritical = "critical"
)

const (
	maxBiaya                = 999999999999.99
	maxLamaPenyelesaianHari = 36500
)

var summaryStatuses = map[string]bool{
	SummaryStatusPending:   true,
	SummaryStatusProgress:  true,
	SummaryStatusCompleted: true,
	SummaryStatusCancelled: true,
	SummaryStatusOnHold:    true,
}

var summaryPrios = map[string]bool{
	SummaryPrioLow:      true,
	SummaryPrioMedium:   true,
	SummaryPrioHigh:     true,
	SummaryPrioUrgent:   true,
	SummaryPrioCritical: true,
}

// LaporanSummary is the denormalized reporting row in the Postgres store.
// laporan_id is a plain unique value, not a foreign key; callers keep the
// two stores in sync manually.
type LaporanSummary struct {
	ID                   uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	LaporanID            uint       `gorm:"column:laporan_id;not null;uniqueIndex" json:"laporan_id"`
	Judul                *string    `gorm:"size:500" json:"judul"`
	Kategori             *string    `gorm:"size:100;index" json:"kategori"`
	Lokasi               *string    `gorm:"size:300" json:"lokasi"`
	Pelapor              *string    `gorm:"size:150" json:"pelapor"`
	Teknisi              *string    `gorm:"size:150;index" json:"teknisi"`
	Status               string     `gorm:"size:20;default:pending;index" json:"status"`
	Prioritas            string     `gorm:"size:20;default:medium;index" json:"prioritas"`
	Biaya                *float64   `gorm:"type:decimal(15,2)" json:"biaya"`
	TanggalLapor         *time.Time `gorm:"column:tanggal_lapor;index" json:"tanggal_lapor"`
	TanggalSelesai       *time.Time `gorm:"column:tanggal_selesai" json:"tanggal_selesai"`
	LamaPenyelesaianHari *int       `gorm:"column:lama_penyelesaian_hari" json:"lama_penyelesaian_hari"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LaporanSummary) TableName() string { return "laporan_summary" }

// HitungLamaPenyelesaian returns ceil(|tanggal_selesai - tanggal_lapor|)
// in whole days, or nil while either date is missing.
func (s *LaporanSummary) HitungLamaPenyelesaian() *int {
	if s.TanggalLapor == nil || s.TanggalSelesai == nil {
		return nil
	}
	diff := s.TanggalSelesai.Sub(*s.TanggalLapor)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	return &days
}

// ApplySaveRules mirrors the store's save-time hooks: fill the day count
// when both dates are set and the field is still empty, and promote
// progress to completed once a completion date exists.
func (s *LaporanSummary) ApplySaveRules() {
	if s.TanggalLapor != nil && s.TanggalSelesai != nil && s.LamaPenyelesaianHari == nil {
		s.LamaPenyelesaianHari = s.HitungLamaPenyelesaian()
	}
	if s.TanggalSelesai != nil && s.Status == SummaryStatusProgress {
		s.Status = SummaryStatusCompleted
	}
}

// Validate checks the row against the schema rules and returns one entry
// per violated field, in declaration order.
func (s *LaporanSummary) Validate(now time.Time) []FieldError {
	var errs []FieldError
	add := func(field, msg string) { errs = append(errs, FieldError{Field: field, Message: msg}) }

	if s.LaporanID == 0 {
		add("laporan_id", "Laporan ID tidak boleh kosong")
	}
	if s.Judul != nil && len([]rune(*s.Judul)) > 500 {
		add("judul", "Judul maksimal 500 karakter")
	}
	if s.Kategori != nil && len([]rune(*s.Kategori)) > 100 {
		add("kategori", "Kategori maksimal 100 karakter")
	}
	if s.Lokasi != nil && len([]rune(*s.Lokasi)) > 300 {
		add("lokasi", "Lokasi maksimal 300 karakter")
	}
	if s.Pelapor != nil && len([]rune(*s.Pelapor)) > 150 {
		add("pelapor", "Nama pelapor maksimal 150 karakter")
	}
	if s.Teknisi != nil && len([]rune(*s.Teknisi)) > 150 {
		add("teknisi", "Nama teknisi maksimal 150 karakter")
	}
	if s.Status != "" && !summaryStatuses[s.Status] {
		add("status", "Status harus salah satu dari: pending, progress, completed, cancelled, on_hold")
	}
	if s.Prioritas != "" && !summaryPrios[s.Prioritas] {
		add("prioritas", "Prioritas harus salah satu dari: low, medium, high, urgent, critical")
	}
	if s.Biaya != nil {
		if *s.Biaya < 0 {
			add("biaya", "Biaya tidak boleh negatif")
		} else if *s.Biaya > maxBiaya {
			add("biaya", "Biaya terlalu besar")
		}
	}
	if s.TanggalLapor != nil && s.TanggalLapor.After(now) {
		add("tanggal_lapor", "Tanggal lapor tidak boleh di masa depan")
	}
	if s.TanggalSelesai != nil && s.TanggalLapor != nil && s.TanggalSelesai.Before(*s.TanggalLapor) {
		add("tanggal_selesai", "Tanggal selesai tidak boleh sebelum tanggal lapor")
	}
	if s.LamaPenyelesaianHari != nil {
		if *s.LamaPenyelesaianHari < 0 {
			add("lama_penyelesaian_hari", "Lama penyelesaian tidak boleh negatif")
		} else if *s.LamaPenyelesaianHari > maxLamaPenyelesaianHari {
			add("lama_penyelesaian_hari", "Lama penyelesaian terlalu besar")
		}
	}
	return errs
}

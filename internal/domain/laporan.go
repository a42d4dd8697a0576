package domain

import "time"

const (
	StatusPending = "pending"
	StatusProses  = "proses"
	StatusSelesai = "selesai"
)

const (
	PrioritasRendah = "rendah"
	PrioritasSedang = "sedang"
	PrioritasTinggi = "tinggi"
)

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusProses || s == StatusSelesai
}

func ValidPrioritas(p string) bool {
	return p == PrioritasRendah || p == PrioritasSedang || p == PrioritasTinggi
}

// Laporan is a damage report in the operational store. pelapor_id points
// at users with ON DELETE SET NULL, so reports outlive their reporter.
type Laporan struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Judul          string     `gorm:"size:200;not null" json:"judul"`
	Deskripsi      string     `gorm:"type:text;not null" json:"deskripsi"`
	Kategori       *string    `gorm:"type:text" json:"kategori"`
	Lokasi         *string    `gorm:"type:text" json:"lokasi"`
	PelaporID      *uint      `gorm:"column:pelapor_id" json:"pelapor_id"`
	Teknisi        *string    `gorm:"type:text" json:"teknisi"`
	Status         string     `gorm:"size:20;not null;default:pending" json:"status"`
	Prioritas      string     `gorm:"size:20;not null;default:sedang" json:"prioritas"`
	Foto           *string    `gorm:"size:255" json:"foto"`
	Biaya          *float64   `gorm:"type:decimal(10,2)" json:"biaya"`
	TanggalLapor   time.Time  `gorm:"column:tanggal_lapor;not null;autoCreateTime" json:"tanggal_lapor"`
	TanggalSelesai *time.Time `gorm:"column:tanggal_selesai" json:"tanggal_selesai"`

	User *Pelapor `gorm:"foreignKey:PelaporID;constraint:OnDelete:SET NULL" json:"User,omitempty"`
}

func (Laporan) TableName() string { return "laporan_baru" }

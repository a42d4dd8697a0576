package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/repo"
	"lapor-fasilitas/pkg/utils"
)

func newLaporanService(t *testing.T) (*LaporanService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t, &domain.User{}, &domain.Laporan{})
	return NewLaporanService(repo.NewLaporanRepo(db), repo.NewUserRepo(db)), db
}

func seedUser(t *testing.T, db *gorm.DB, nama, email string) *domain.User {
	t.Helper()
	u := &domain.User{Nama: nama, Email: email, Password: utils.HashPassword("x"), Role: domain.RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestLaporanService_CreateForcesPending(t *testing.T) {
	t.Parallel()
	svc, _ := newLaporanService(t)

	l, err := svc.Create(CreateLaporanInput{
		Judul:     "AC mati",
		Deskripsi: "AC ruang 101 tidak menyala",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, l.Status)
	assert.Equal(t, domain.PrioritasSedang, l.Prioritas)
	assert.False(t, l.TanggalLapor.IsZero())
	assert.Nil(t, l.TanggalSelesai)
}

func TestLaporanService_CreateRequiresJudulDeskripsi(t *testing.T) {
	t.Parallel()
	svc, _ := newLaporanService(t)

	_, err := svc.Create(CreateLaporanInput{Judul: "", Deskripsi: "x"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Judul dan deskripsi harus diisi", verr.Message)
}

func TestLaporanService_CreateUnknownPelaporRejected(t *testing.T) {
	t.Parallel()
	svc, _ := newLaporanService(t)

	_, err := svc.Create(CreateLaporanInput{
		Judul:     "AC mati",
		Deskripsi: "x",
		PelaporID: ptr(uint(999)),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "User pelapor tidak ditemukan", verr.Message)
}

func TestLaporanService_CreatePreloadsPelapor(t *testing.T) {
	t.Parallel()
	svc, db := newLaporanService(t)
	u := seedUser(t, db, "Budi", "budi@example.com")

	l, err := svc.Create(CreateLaporanInput{
		Judul:     "Pintu rusak",
		Deskripsi: "Engsel patah",
		PelaporID: &u.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, l.User)
	assert.Equal(t, "Budi", l.User.Nama)
	assert.Equal(t, "budi@example.com", l.User.Email)
}

func TestLaporanService_SelesaiStampedOnce(t *testing.T) {
	t.Parallel()
	svc, _ := newLaporanService(t)

	first := date(2024, 2, 1)
	svc.now = func() time.Time { return first }

	l, err := svc.Create(CreateLaporanInput{Judul: "Lampu mati", Deskripsi: "x"})
	require.NoError(t, err)

	l, err = svc.UpdateStatus(l.ID, domain.StatusSelesai, nil)
	require.NoError(t, err)
	require.NotNil(t, l.TanggalSelesai)
	assert.True(t, l.TanggalSelesai.Equal(first))

	// updating an already-selesai row must not move the timestamp
	svc.now = func() time.Time { return date(2024, 3, 15) }
	l, err = svc.UpdateStatus(l.ID, domain.StatusSelesai, ptr("Andi"))
	require.NoError(t, err)
	require.NotNil(t, l.TanggalSelesai)
	assert.True(t, l.TanggalSelesai.Equal(first))
	require.NotNil(t, l.Teknisi)
	assert.Equal(t, "Andi", *l.Teknisi)
}

func TestLaporanService_UpdateStatusRejectsUnknownValue(t *testing.T) {
	t.Parallel()
	svc, _ := newLaporanService(t)

	l, err := svc.Create(CreateLaporanInput{Judul: "Lampu mati", Deskripsi: "x"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(l.ID, "done", nil)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Status tidak valid. Gunakan: pending, proses, atau selesai", verr.Message)
}

func TestLaporanService_UpdatePartialPatch(t *testing.T) {
	t.Parallel()
	svc, _ := newLaporanService(t)

	l, err := svc.Create(CreateLaporanInput{
		Judul:     "Keran bocor",
		Deskripsi: "Toilet lantai 2",
		Kategori:  ptr("plumbing"),
	})
	require.NoError(t, err)

	l, err = svc.Update(l.ID, UpdateLaporanInput{
		Prioritas: ptr(domain.PrioritasTinggi),
		Biaya:     ptr(150000.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Keran bocor", l.Judul)
	require.NotNil(t, l.Kategori)
	assert.Equal(t, "plumbing", *l.Kategori)
	assert.Equal(t, domain.PrioritasTinggi, l.Prioritas)
	require.NotNil(t, l.Biaya)
	assert.Equal(t, 150000.0, *l.Biaya)
}

func TestLaporanService_ListByUserAndStatus(t *testing.T) {
	t.Parallel()
	svc, db := newLaporanService(t)
	budi := seedUser(t, db, "Budi", "budi@example.com")
	sari := seedUser(t, db, "Sari", "sari@example.com")

	for i, owner := range []*domain.User{budi, budi, sari} {
		_, err := svc.Create(CreateLaporanInput{
			Judul:     "Laporan",
			Deskripsi: "x",
			PelaporID: &owner.ID,
		})
		require.NoError(t, err, "seed %d", i)
	}

	rows, total, err := svc.List(repo.LaporanFilter{PelaporID: &budi.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, r := range rows {
		require.NotNil(t, r.PelaporID)
		assert.Equal(t, budi.ID, *r.PelaporID)
	}

	rows, total, err = svc.List(repo.LaporanFilter{Status: domain.StatusSelesai})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, rows)
}

func TestLaporanService_DeleteAndNotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newLaporanService(t)

	l, err := svc.Create(CreateLaporanInput{Judul: "Lampu mati", Deskripsi: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(l.ID))
	assert.ErrorIs(t, svc.Delete(l.ID), domain.ErrNotFound)

	_, err = svc.Get(l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLaporanService_Stats(t *testing.T) {
	t.Parallel()
	svc, _ := newLaporanService(t)

	a, err := svc.Create(CreateLaporanInput{Judul: "a", Deskripsi: "x", Kategori: ptr("listrik")})
	require.NoError(t, err)
	_, err = svc.Create(CreateLaporanInput{Judul: "b", Deskripsi: "x", Kategori: ptr("listrik"), Prioritas: domain.PrioritasTinggi})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(a.ID, domain.StatusSelesai, nil)
	require.NoError(t, err)

	st, err := svc.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Total)
	assert.EqualValues(t, 1, st.ByStatus.Pending)
	assert.EqualValues(t, 0, st.ByStatus.Proses)
	assert.EqualValues(t, 1, st.ByStatus.Selesai)
	require.Len(t, st.ByKategori, 1)
	assert.Equal(t, "listrik", st.ByKategori[0].Kategori)
	assert.EqualValues(t, 2, st.ByKategori[0].Count)
}

package services

import (
	"strings"
	"testing"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLabelService() *LabelService {
	return NewLabelService(config.CompanyConfig{
		Name:    "สมาคมศิษย์เก่าวิทยาลัยอาชีวศึกษา",
		Address: "123 ถ.ศรีจันทร์ อ.เมือง จ.ขอนแก่น 40000",
		Phone:   "043-123456",
	})
}

func labelAlumni(first, last string) *models.Alumni {
	return &models.Alumni{
		Title:          "นาย",
		FirstName:      first,
		LastName:       last,
		Address:        "99/1 ถ.มิตรภาพ ต.ในเมือง อ.เมือง จ.ขอนแก่น 40000",
		Phone:          "0812345678",
		TrackingNumber: "TH123456789",
	}
}

func TestRenderLabel(t *testing.T) {
	svc := newLabelService()

	t.Run("contains recipient and sender", func(t *testing.T) {
		html, err := svc.RenderLabel(labelAlumni("สมชาย", "ใจดี"))
		require.NoError(t, err)

		assert.Contains(t, html, "นายสมชาย ใจดี")
		assert.Contains(t, html, "สมาคมศิษย์เก่าวิทยาลัยอาชีวศึกษา")
		assert.Contains(t, html, "99/1 ถ.มิตรภาพ")
		assert.Contains(t, html, "TH123456789")
	})

	t.Run("missing fields render empty, not error", func(t *testing.T) {
		html, err := svc.RenderLabel(&models.Alumni{FirstName: "สมหญิง"})
		require.NoError(t, err)

		assert.Contains(t, html, "สมหญิง")
		assert.NotContains(t, html, "เลขพัสดุ:")
		assert.NotContains(t, html, "โทร. </div>")
	})
}

func TestRender4Up(t *testing.T) {
	svc := newLabelService()

	t.Run("pads short batches with placeholders", func(t *testing.T) {
		html, err := svc.Render4Up([]*models.Alumni{labelAlumni("สมชาย", "ใจดี")})
		require.NoError(t, err)

		assert.Equal(t, 1, strings.Count(html, `<div class="label">`))
		assert.Equal(t, 3, strings.Count(html, `<div class="label empty">`))
	})

	t.Run("truncates batches past four", func(t *testing.T) {
		batch := []*models.Alumni{
			labelAlumni("หนึ่ง", "ก"),
			labelAlumni("สอง", "ข"),
			labelAlumni("สาม", "ค"),
			labelAlumni("สี่", "ง"),
			labelAlumni("ห้า", "จ"),
		}
		html, err := svc.Render4Up(batch)
		require.NoError(t, err)

		assert.Equal(t, 4, strings.Count(html, `<div class="label">`))
		assert.NotContains(t, html, "นายห้า จ")
	})
}

func TestRenderBulk(t *testing.T) {
	svc := newLabelService()

	batch := make([]*models.Alumni, 0, 6)
	for i := 0; i < 6; i++ {
		batch = append(batch, labelAlumni("สมชาย", "ใจดี"))
	}

	html, err := svc.RenderBulk(batch)
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(html, `<div class="label">`))
}

func TestRenderSummary(t *testing.T) {
	svc := newLabelService()

	html, err := svc.RenderSummary([]*models.Alumni{
		labelAlumni("สมชาย", "ใจดี"),
		labelAlumni("สมหญิง", "รักเรียน"),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "สรุปรายการจัดส่งเอกสาร")
	assert.Contains(t, html, "ทั้งหมด 2 รายการ")
	assert.Equal(t, 2, strings.Count(html, "<td>นาย"))
	assert.Contains(t, html, "TH123456789")
}

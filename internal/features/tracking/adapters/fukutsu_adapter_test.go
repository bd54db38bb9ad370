package adapter

import (
	"testing"

	"parcel-tracker/internal/features/tracking/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFukutsuAdapter_BuildRequest(t *testing.T) {
	a := NewFukutsuAdapter("https://corp.fukutsu.co.jp/situation/tracking_no_hunt")

	req, err := a.BuildRequest("1234567890")
	require.NoError(t, err)
	assert.Equal(t, domain.CarrierFukutsu, a.Carrier())
	assert.Equal(t, "https://corp.fukutsu.co.jp/situation/tracking_no_hunt/1234567890", req.URL)
}

func TestFukutsuAdapter_Extract(t *testing.T) {
	tests := []struct {
		name string
		html string
		want domain.TrackingResult
	}{
		{
			name: "unregistered",
			html: `<html><body><strong class="redbold">該当データはありません。</strong></body></html>`,
			want: domain.TrackingResult{Status: domain.StatusUnregistered},
		},
		{
			name: "delivered with positional time",
			html: `<html><body>
				<strong class="redbold">配達完了です</strong>
				<table>
					<tr><td><strong>1234567890</strong></td></tr>
					<tr><td><strong>東京支店</strong></td></tr>
					<tr><td><strong><span>個数</span></strong></td></tr>
					<tr><td><strong>1</strong></td></tr>
					<tr><td><strong>大阪支店</strong></td></tr>
					<tr><td><strong>2024年12月01日 10時30分</strong></td></tr>
				</table>
			</body></html>`,
			want: domain.TrackingResult{Status: domain.StatusDelivered, Time: "2024/12/01 10:30"},
		},
		{
			name: "in transit passes through",
			html: `<html><body><strong class="redbold">輸送中です</strong></body></html>`,
			want: domain.TrackingResult{Status: "輸送中です"},
		},
		{
			name: "no status element",
			html: `<html><body><strong>1234567890</strong></body></html>`,
			want: domain.TrackingResult{Status: domain.StatusUnavailable},
		},
	}

	a := NewFukutsuAdapter("https://example.com")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Extract([]byte(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

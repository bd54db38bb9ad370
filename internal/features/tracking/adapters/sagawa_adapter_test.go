package adapter

import (
	"net/http"
	"testing"

	"parcel-tracker/internal/features/tracking/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSagawaAdapter_BuildRequest(t *testing.T) {
	a := NewSagawaAdapter("https://k2k.sagawa-exp.co.jp/p/web/okurijosearch.do")

	req, err := a.BuildRequest("1234567890")
	require.NoError(t, err)
	assert.Equal(t, domain.CarrierSagawa, a.Carrier())
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://k2k.sagawa-exp.co.jp/p/web/okurijosearch.do?okurijoNo=1234567890", req.URL)
}

func TestSagawaAdapter_Extract(t *testing.T) {
	tests := []struct {
		name string
		html string
		want domain.TrackingResult
	}{
		{
			name: "unregistered",
			html: `<html><body><span class="state">該当なし</span></body></html>`,
			want: domain.TrackingResult{Status: domain.StatusUnregistered},
		},
		{
			name: "delivered with completion date",
			html: `<html><body>
				<span class="state">配達完了</span>
				<dl class="okurijo_info">
					<dt>お問い合せ送り状NO</dt><dd>1234-5678-9012</dd>
					<dt>配達完了日</dt><dd>2024年12月01日 10時30分</dd>
				</dl>
			</body></html>`,
			want: domain.TrackingResult{Status: domain.StatusDelivered, Time: "2024/12/01 10:30"},
		},
		{
			name: "in transit passes through",
			html: `<html><body><span class="state"> 輸送中 </span></body></html>`,
			want: domain.TrackingResult{Status: "輸送中"},
		},
		{
			name: "no status element",
			html: `<html><body><p>メンテナンス中</p></body></html>`,
			want: domain.TrackingResult{Status: domain.StatusUnavailable},
		},
	}

	a := NewSagawaAdapter("https://example.com")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Extract([]byte(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

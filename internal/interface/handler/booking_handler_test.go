package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequestValidate(t *testing.T) {
	valid := createBookingRequest{
		ServiceCode:        "TANDEM",
		NumberOfPassengers: 2,
		ContactName:        "Jane Doe",
		Email:              "jane@example.com",
		Phone:              "+62 812-3456-7890",
		PreferredDate:      "2025-07-01",
		PreferredTime:      "09:30",
	}
	assert.NoError(t, valid.validate())

	missing := valid
	missing.ServiceCode = ""
	assert.Error(t, missing.validate())

	noPax := valid
	noPax.NumberOfPassengers = 0
	assert.Error(t, noPax.validate())

	noContact := valid
	noContact.Email = ""
	assert.Error(t, noContact.validate())

	badDate := valid
	badDate.PreferredDate = "01/07/2025"
	assert.Error(t, badDate.validate())

	badTime := valid
	badTime.PreferredTime = "morning"
	assert.Error(t, badTime.validate())

	badSource := valid
	badSource.Source = "carrier-pigeon"
	assert.Error(t, badSource.validate())

	withSource := valid
	withSource.Source = "telegram"
	assert.NoError(t, withSource.validate())
}

func TestParseListFilterDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)

	filter, err := parseListFilter(req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), filter.Page)
	assert.Equal(t, int64(20), filter.Limit)
	assert.Equal(t, "createdAt", filter.SortBy)
	assert.True(t, filter.SortDesc)
}

func TestParseListFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bookings?status=PENDING&source=website&from=2025-01-01&page=3&limit=50&sortBy=flightDate&sortOrder=asc&search=jane", nil)

	filter, err := parseListFilter(req)
	require.NoError(t, err)

	assert.Equal(t, "PENDING", filter.Status)
	assert.Equal(t, "website", filter.Source)
	require.NotNil(t, filter.From)
	assert.Equal(t, int64(3), filter.Page)
	assert.Equal(t, int64(50), filter.Limit)
	assert.Equal(t, "flightDate", filter.SortBy)
	assert.False(t, filter.SortDesc)
	assert.Equal(t, "jane", filter.Search)
}

func TestParseListFilterRejectsBadInput(t *testing.T) {
	for _, query := range []string{
		"status=LOST",
		"contactStatus=MAYBE",
		"source=fax",
		"from=tomorrow",
		"page=0",
		"limit=1000",
	} {
		req := httptest.NewRequest(http.MethodGet, "/bookings?"+query, nil)
		_, err := parseListFilter(req)
		assert.Error(t, err, query)
	}
}

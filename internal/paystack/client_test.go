package paystack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/MID-1700000000000-AB12C", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"reference": "MID-1700000000000-AB12C",
				"status": "success",
				"amount": 910000,
				"channel": "card",
				"paid_at": "2026-03-02T10:05:00.000Z"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_secret").WithBaseURL(srv.URL)
	v, err := client.Verify(context.Background(), "MID-1700000000000-AB12C")
	require.NoError(t, err)
	assert.True(t, v.Success())
	assert.Equal(t, int64(910000), v.Amount)
	assert.Equal(t, "MID-1700000000000-AB12C", v.Reference)
}

func TestVerifyFailedTransactionIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "message": "Verification successful", "data": {"reference": "MID-X", "status": "failed", "amount": 910000}}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_secret").WithBaseURL(srv.URL)
	v, err := client.Verify(context.Background(), "MID-X")
	require.NoError(t, err)
	assert.False(t, v.Success())
}

func TestVerifyUnknownReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status": false, "message": "Transaction reference not found"}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_secret").WithBaseURL(srv.URL)
	_, err := client.Verify(context.Background(), "MID-MISSING")
	require.Error(t, err)

	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, http.StatusNotFound, verr.StatusCode)
	assert.Contains(t, verr.Message, "not found")
}

func TestVerifyMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_secret").WithBaseURL(srv.URL)
	_, err := client.Verify(context.Background(), "MID-X")
	assert.Error(t, err)
}

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObserveProvider(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("exchange", "error"))
	ObserveProvider("exchange", errors.New("boom"), time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("exchange", "error")))
}

func TestObserveProfileCache(t *testing.T) {
	hits := testutil.ToFloat64(ProfileCacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(ProfileCacheLookups.WithLabelValues("miss"))
	ObserveProfileCache(true)
	ObserveProfileCache(false)
	ObserveProfileCache(false)
	assert.Equal(t, hits+1, testutil.ToFloat64(ProfileCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(ProfileCacheLookups.WithLabelValues("miss")))
}

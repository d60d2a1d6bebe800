package utils

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordGatewayRequest(t *testing.T) {
	before := testutil.ToFloat64(gatewayRequestsTotal.WithLabelValues("analyze", OutcomeOK))
	tokensBefore := testutil.ToFloat64(gatewayTokensTotal.WithLabelValues("analyze"))

	RecordGatewayRequest("analyze", OutcomeOK, 1500*time.Millisecond, 120)
	RecordGatewayRequest("analyze", OutcomeOK, time.Second, 0)

	assert.Equal(t, before+2, testutil.ToFloat64(gatewayRequestsTotal.WithLabelValues("analyze", OutcomeOK)))
	assert.Equal(t, tokensBefore+120, testutil.ToFloat64(gatewayTokensTotal.WithLabelValues("analyze")))
}

func TestRecordDroppedSuggestions(t *testing.T) {
	before := testutil.ToFloat64(topicSuggestionsDropped)

	RecordDroppedSuggestions(0)
	RecordDroppedSuggestions(3)

	assert.Equal(t, before+3, testutil.ToFloat64(topicSuggestionsDropped))
}

func TestSetActiveSessions(t *testing.T) {
	SetActiveSessions(4)
	assert.Equal(t, float64(4), testutil.ToFloat64(sessionsActive))
	SetActiveSessions(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(sessionsActive))
}

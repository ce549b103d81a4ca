package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWebhookReconciliations_Increments(t *testing.T) {
	before := testutil.ToFloat64(WebhookReconciliations.WithLabelValues("transitioned"))

	WebhookReconciliations.WithLabelValues("transitioned").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(WebhookReconciliations.WithLabelValues("transitioned")))
}

/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type MockT struct {
	Failed bool
}

func (m *MockT) Errorf(format string, args ...interface{}) {
	_ = fmt.Sprintf(format, args...)
	m.Failed = true
}

func (m *MockT) FailNow() {
	m.Failed = true
}

func TestRequireCounterValue(t *testing.T) {
	hitsCounter := prometheus.NewCounter(prometheus.CounterOpts{Name: "hits_total"})
	hitsCounter.Add(42)

	mockT := &MockT{}
	RequireCounterValue(mockT, hitsCounter, 41)
	require.True(t, mockT.Failed)

	mockT = &MockT{}
	RequireCounterValue(mockT, hitsCounter, 42)
	require.False(t, mockT.Failed)
}

func TestRequireGaugeValue(t *testing.T) {
	amountGauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "entries_amount"}, []string{"memo"})
	amountGauge.WithLabelValues("squares").Set(7)

	mockT := &MockT{}
	RequireGaugeValue(mockT, amountGauge.WithLabelValues("squares"), 8)
	require.True(t, mockT.Failed)

	mockT = &MockT{}
	RequireGaugeValue(mockT, amountGauge.WithLabelValues("squares"), 7)
	require.False(t, mockT.Failed)
}

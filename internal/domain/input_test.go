package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocationInput_PayloadWithoutFinancing(t *testing.T) {
	// The API record still carries stale financing values; they must not leak
	// into the payload once financing is off.
	var fetched Allocation
	err := json.Unmarshal([]byte(`{
		"id": 7, "name": "Tesouro", "type": "FINANCEIRA", "value": 5000,
		"date": "2025-01-10T00:00:00.000Z", "hasFinancing": false,
		"startDate": "2024-05-01T00:00:00.000Z", "installments": 12,
		"interestRate": 1.2, "downPayment": 300, "simulationId": 1
	}`), &fetched)
	require.NoError(t, err)

	input := fetched.Input()
	assert.Nil(t, input.Financing)

	data, err := json.Marshal(input)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, false, payload["hasFinancing"])
	for _, field := range []string{"startDate", "installments", "interestRate", "downPayment"} {
		assert.NotContains(t, payload, field)
	}
	assert.Equal(t, "2025-01-10", payload["date"])
}

func TestAllocationInput_PayloadWithFinancing(t *testing.T) {
	input := AllocationInput{
		Name:  "Apartamento",
		Type:  AllocationTypeFixed,
		Value: NewAmount(400000),
		Date:  NewDate(2025, 2, 1),
		Financing: &FinancingTerms{
			StartDate:    NewDate(2025, 3, 1),
			Installments: 360,
			InterestRate: MustAmount("0.9"),
			DownPayment:  NewAmount(80000),
		},
		SimulationID: 3,
	}

	data, err := json.Marshal(input)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Apartamento", "type": "IMOBILIZADA", "value": 400000,
		"date": "2025-02-01", "hasFinancing": true, "startDate": "2025-03-01",
		"installments": 360, "interestRate": 0.9, "downPayment": 80000,
		"simulationId": 3
	}`, string(data))
}

func TestEditRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record string
		input  func(data []byte) (interface{}, error)
	}{
		{
			name:   "simulation",
			record: `{"name":"Plano A","startDate":"2025-01-01","rate":0.04,"status":"VIVO"}`,
			input: func(data []byte) (interface{}, error) {
				var s Simulation
				err := json.Unmarshal(data, &s)
				return s.Input(), err
			},
		},
		{
			name:   "financed allocation",
			record: `{"name":"Casa","type":"IMOBILIZADA","value":300000,"date":"2025-01-01","hasFinancing":true,"startDate":"2025-02-01","installments":120,"interestRate":1.1,"downPayment":50000,"simulationId":2}`,
			input: func(data []byte) (interface{}, error) {
				var a Allocation
				err := json.Unmarshal(data, &a)
				return a.Input(), err
			},
		},
		{
			name:   "insurance",
			record: `{"name":"Vida","startDate":"2025-01-01","duration":10,"premium":150,"insuredValue":500000,"simulationId":1}`,
			input: func(data []byte) (interface{}, error) {
				var i Insurance
				err := json.Unmarshal(data, &i)
				return i.Input(), err
			},
		},
		{
			name:   "movement with end date",
			record: `{"type":"SAIDA","value":2500,"frequency":"MENSAL","startDate":"2025-01-01","endDate":"2030-12-31","simulationId":1}`,
			input: func(data []byte) (interface{}, error) {
				var m Movement
				err := json.Unmarshal(data, &m)
				return m.Input(), err
			},
		},
		{
			name:   "movement without end date",
			record: `{"type":"ENTRADA","value":9000,"frequency":"UNICA","startDate":"2025-06-01","simulationId":4}`,
			input: func(data []byte) (interface{}, error) {
				var m Movement
				err := json.Unmarshal(data, &m)
				return m.Input(), err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := tt.input([]byte(tt.record))
			require.NoError(t, err)

			payload, err := json.Marshal(input)
			require.NoError(t, err)
			assert.JSONEq(t, tt.record, string(payload))
		})
	}
}

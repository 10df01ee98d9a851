package flow

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vocero-ai/vocero/router"
)

func TestPreTurnTransition_GlobalInterrupt(t *testing.T) {
	// human_handoff wins from every state.
	for _, name := range Nodes() {
		next, changed := preTurnTransition(name, router.LabelHumanHandoff)
		require.True(t, changed, "from %s", name)
		require.Equal(t, NodeTransferLogic, next, "from %s", name)
	}
}

func TestPreTurnTransition_TrafficFromGreeting(t *testing.T) {
	next, changed := preTurnTransition(NodeRootGreeting, router.LabelLegalIssueTraffic)
	require.True(t, changed)
	require.Equal(t, NodeQualifyStart, next)
}

func TestPreTurnTransition_NoRuleMatches(t *testing.T) {
	tests := []struct {
		name    string
		current NodeName
		label   string
	}{
		{"traffic outside greeting", NodeQualifyStart, router.LabelLegalIssueTraffic},
		{"pricing from greeting", NodeRootGreeting, router.LabelPricingInfo},
		{"pricing mid flow", NodeOfferAppointment, router.LabelPricingInfo},
		{"unknown label", NodeRootGreeting, "weather_smalltalk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := preTurnTransition(tt.current, tt.label)
			require.False(t, changed)
			require.Equal(t, tt.current, next)
		})
	}
}

func TestPostTurnTransition(t *testing.T) {
	tests := []struct {
		name    string
		current NodeName
		text    string
		want    NodeName
		changed bool
	}{
		{"valid locality", NodeQualifyStart, "Fue en Córdoba capital", NodeQualifyDetails, true},
		{"valid locality ascii", NodeQualifyStart, "en cordoba", NodeQualifyDetails, true},
		{"invalid locality", NodeQualifyStart, "fue en Buenos Aires", NodeRejectionLocation, true},
		{"too far", NodeQualifyStart, "un pueblo muy lejos", NodeRejectionLocation, true},
		{"no locality signal", NodeQualifyStart, "no sé dónde", NodeQualifyStart, false},
		{"details long enough", NodeQualifyDetails, "hubo heridos", NodeOfferAppointment, true},
		{"details too short", NodeQualifyDetails, "ok", NodeQualifyDetails, false},
		{"affirmative booking", NodeOfferAppointment, "sí, quiero agendar", NodeBookingProcess, true},
		{"negative booking", NodeOfferAppointment, "lo voy a pensar", NodeOfferAppointment, false},
		{"no rule for greeting", NodeRootGreeting, "hola, tuve un accidente en Córdoba", NodeRootGreeting, false},
		{"no rule for transfer", NodeTransferLogic, "sí quiero una cita", NodeTransferLogic, false},
		{"no rule for booking", NodeBookingProcess, "el lunes a las 10", NodeBookingProcess, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := postTurnTransition(tt.current, tt.text)
			require.Equal(t, tt.changed, changed)
			require.Equal(t, tt.want, next)
		})
	}
}

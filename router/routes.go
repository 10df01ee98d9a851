package router

// Intent labels the seeded index can return. The flow engine's pre-turn
// transition rules key off these exact strings, so they must stay in sync
// with the seeded catalogue.
const (
	// LabelHumanHandoff is the global interrupt: the caller wants a person.
	LabelHumanHandoff = "human_handoff"
	// LabelLegalIssueTraffic identifies a traffic accident legal matter.
	LabelLegalIssueTraffic = "legal_issue_traffic"
	// LabelPricingInfo identifies questions about fees and pricing.
	LabelPricingInfo = "pricing_info"
)

// Route pairs an intent label with its example utterances.
type Route struct {
	Name       string
	Utterances []string
}

// DefaultRoutes returns the fixed route catalogue the index is seeded with.
// Each utterance becomes one indexed point labeled with the route name.
func DefaultRoutes() []Route {
	return []Route{
		{
			Name: LabelHumanHandoff,
			Utterances: []string{
				"quiero hablar con un humano",
				"pásame con una persona",
				"no eres real",
				"dame con un agente",
				"necesito soporte real",
				"transferirme",
			},
		},
		{
			Name: LabelLegalIssueTraffic,
			Utterances: []string{
				"tuve un accidente de tránsito",
				"me chocaron el auto",
				"choque en la ruta",
				"necesito un abogado por un accidente",
				"tengo un problema legal de transito",
				"accidente con lesionados",
				"me atropellaron",
			},
		},
		{
			Name: LabelPricingInfo,
			Utterances: []string{
				"cuánto cuesta",
				"cuál es el precio",
				"tienen planes gratuitos?",
				"dime las tarifas",
				"costo del servicio",
				"honorarios",
			},
		},
	}
}

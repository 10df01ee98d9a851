package flow

import (
	"context"

	"github.com/vocero-ai/vocero/core"
	"github.com/vocero-ai/vocero/logging"
	"github.com/vocero-ai/vocero/prompt"
)

// NodeName identifies one conversation state. The set of names is fixed at
// build time.
type NodeName string

// The closed node catalogue.
const (
	NodeRootGreeting      NodeName = "root_greeting"
	NodeQualifyStart      NodeName = "qualify_start"
	NodeQualifyDetails    NodeName = "qualify_details"
	NodeOfferAppointment  NodeName = "offer_appointment"
	NodeBookingProcess    NodeName = "booking_process"
	NodeRejectionScope    NodeName = "rejection_scope"
	NodeRejectionLocation NodeName = "rejection_location"
	NodeTransferLogic     NodeName = "transfer_logic"
)

// InitialNode is where every new session starts.
const InitialNode = NodeRootGreeting

// Node is an immutable conversation state descriptor. Nodes are stateless
// singletons; sessions hold a NodeName, never a mutable Node.
type Node struct {
	Name NodeName
	// DefaultPrompt is the built-in system prompt used whenever the prompt
	// management service cannot deliver the managed one.
	DefaultPrompt string
	// Actions are the callable action specs advertised while in this state.
	Actions []core.ActionSpec
}

// PromptName is the key under which the managed prompt is stored.
func (n Node) PromptName() string { return string(n.Name) + "_system" }

// SystemPrompt resolves the node's system prompt. It consults the prompt
// service first and falls back to the built-in default on any failure;
// prompt resolution never fails the turn.
func (n Node) SystemPrompt(ctx context.Context, prompts prompt.Service, logger logging.Logger) string {
	if prompts == nil {
		return n.DefaultPrompt
	}
	p, err := prompts.GetPrompt(ctx, n.PromptName())
	if err != nil {
		if logger != nil {
			logger.Warn("Could not fetch managed prompt, using default", "prompt", n.PromptName(), "error", err)
		}
		return n.DefaultPrompt
	}
	return p
}

var catalogue = map[NodeName]Node{
	NodeRootGreeting: {
		Name: NodeRootGreeting,
		DefaultPrompt: "Eres Giuliana, la recepcionista del estudio del Dr. Sanchez. " +
			"Saluda cordialmente, menciona al estudio y pregunta en qué puedes ayudar. " +
			"Tu objetivo es escuchar al usuario para entender su problema legal. " +
			"Sé breve y profesional.",
	},
	NodeQualifyStart: {
		Name: NodeQualifyStart,
		DefaultPrompt: "El usuario tiene un problema de tránsito. Debes filtrar la localidad. " +
			"Pregunta: '¿En qué localidad ocurrió el accidente?' y '¿Cuál es su nombre?'. " +
			"Si es en Córdoba Capital o alrededores, pasaremos al siguiente paso. " +
			"Si es muy lejos, rechazaremos el caso amablemente. " +
			"Obtén estos datos.",
	},
	NodeQualifyDetails: {
		Name: NodeQualifyDetails,
		DefaultPrompt: "El usuario está en una localidad válida. " +
			"Ahora obtén detalles críticos: " +
			"1. ¿Hubo heridos graves o fallecidos? " +
			"2. Una breve descripción del hecho. " +
			"No des consejos legales, solo recaba información.",
	},
	NodeOfferAppointment: {
		Name: NodeOfferAppointment,
		DefaultPrompt: "El Dr. Sanchez puede tomar el caso. " +
			"El estudio está en Sarachaga 1234. La consulta inicial son $20.000 pesos en efectivo. " +
			"¿Desea que busquemos un horario para que venga?",
		Actions: []core.ActionSpec{
			{
				Name:        "check_availability",
				Description: "Checks if the doctor is available for a call or appointment.",
				Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
			},
		},
	},
	NodeBookingProcess: {
		Name: NodeBookingProcess,
		DefaultPrompt: "Coordina fecha y hora exacta. Pide un email para confirmación. " +
			"Usa la herramienta book_appointment cuando tengas los datos.",
		Actions: []core.ActionSpec{
			{
				Name:        "book_appointment",
				Description: "Books the appointment.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"date":  map[string]any{"type": "string"},
						"email": map[string]any{"type": "string"},
					},
					"required": []string{"date", "email"},
				},
			},
		},
	},
	NodeRejectionScope: {
		Name: NodeRejectionScope,
		DefaultPrompt: "El Dr. Sanchez se especializa exclusivamente en accidentes de tránsito. " +
			"Explica esto cortésmente y pregunta si desea dejar un mensaje de todos modos.",
	},
	NodeRejectionLocation: {
		Name: NodeRejectionLocation,
		DefaultPrompt: "Por el momento el Dr. solo litiga en tribunales de la ciudad de Córdoba. " +
			"Explica esto cortésmente y pregunta si desea dejar un mensaje.",
	},
	NodeTransferLogic: {
		Name: NodeTransferLogic,
		DefaultPrompt: "Simula verificar la disponibilidad. " +
			"El Dr. está en audiencia. " +
			"Di: 'El Dr. está en audiencia. ¿Prefiere agendar una cita o dejar un mensaje?'",
	},
}

// Lookup returns the node descriptor for a name.
func Lookup(name NodeName) (Node, bool) {
	n, ok := catalogue[name]
	return n, ok
}

// IsValid reports whether the name is part of the catalogue.
func IsValid(name NodeName) bool {
	_, ok := catalogue[name]
	return ok
}

// Nodes returns the catalogue names in a fixed order.
func Nodes() []NodeName {
	return []NodeName{
		NodeRootGreeting,
		NodeQualifyStart,
		NodeQualifyDetails,
		NodeOfferAppointment,
		NodeBookingProcess,
		NodeRejectionScope,
		NodeRejectionLocation,
		NodeTransferLogic,
	}
}

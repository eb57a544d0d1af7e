package locale

// Representative message set. Keys are dotted, mirroring the client-side
// string tables.
var catalog = map[Language]map[string]string{
	EnUS: {
		"gate.outOfCredits":      "You have used all {limit} simulations for this month.",
		"gate.upgradeRequired":   "Upgrade your plan to keep practicing.",
		"gate.copilotRestricted": "The Co-Pilot is not included in the Basic plan.",
		"feedback.generating":    "Analyzing your conversation...",
		"feedback.failed":        "We could not generate your feedback report. Please try again.",
		"session.defaultTitle":   "Session of {date}",
		"program.completed":      "Program completed. Well done!",
		"program.continue":       "Continue with \"{scenario}\"",
		"stats.streak":           "{count} day streak",
	},
	FrFR: {
		"gate.outOfCredits":      "Vous avez utilisé vos {limit} simulations pour ce mois-ci.",
		"gate.upgradeRequired":   "Passez à un forfait supérieur pour continuer à vous entraîner.",
		"gate.copilotRestricted": "Le Co-Pilote n'est pas inclus dans le forfait Basic.",
		"feedback.generating":    "Analyse de votre conversation...",
		"feedback.failed":        "Impossible de générer votre rapport. Veuillez réessayer.",
		"session.defaultTitle":   "Session du {date}",
		"program.completed":      "Programme terminé. Bravo !",
		"program.continue":       "Continuer avec « {scenario} »",
		"stats.streak":           "Série de {count} jours",
	},
}

package inventory

// Settings políticas de inventario inyectadas al gateway y a los flujos de documentos.
type Settings struct {
	AllowNegativeStock            bool
	RequireApprovalForAdjustments bool
	RequireApprovalForTransfers   bool
	RequireReasonForAdjustments   bool
}

// DefaultSettings stock negativo prohibido y aprobación obligatoria.
func DefaultSettings() Settings {
	return Settings{
		AllowNegativeStock:            false,
		RequireApprovalForAdjustments: true,
		RequireApprovalForTransfers:   true,
		RequireReasonForAdjustments:   false,
	}
}

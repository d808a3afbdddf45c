package draft

import "github.com/google/uuid"

// Validation field keys, matching the wire names of the draft fields.
const (
	FieldTenant       = "tenant"
	FieldProperty     = "property"
	FieldContractType = "contract_type"
	FieldStartDate    = "start_date"
	FieldAmount       = "amount"
)

// Validate checks the required-field set before any submission attempt. It
// returns a field-name to message mapping; an empty mapping means the draft
// is submittable. The function is pure: the same draft always yields the
// same error set, and fixing one field removes exactly that field's entry on
// the next run.
func Validate(d ContractDraft) map[string]string {
	errs := map[string]string{}

	if d.TenantID == uuid.Nil {
		errs[FieldTenant] = "Le locataire est obligatoire"
	}
	if d.PropertyID == uuid.Nil {
		errs[FieldProperty] = "La propriété est obligatoire"
	}
	if d.ContractType == "" {
		errs[FieldContractType] = "Le type de contrat est obligatoire"
	}
	if d.StartDate == nil {
		errs[FieldStartDate] = "La date de début est obligatoire"
	}
	if d.Amount <= 0 {
		errs[FieldAmount] = "Le montant est obligatoire"
	}

	return errs
}

// IsSubmittable reports whether Validate would return no errors.
func IsSubmittable(d ContractDraft) bool {
	return len(Validate(d)) == 0
}

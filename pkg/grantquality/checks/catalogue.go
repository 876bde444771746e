package checks

import (
	"strings"
)

// QualityChecks are the quality and accuracy checks, in run order.
var QualityChecks = []*Kind{
	ZeroAmountTest,
	FundingOrgUnrecognisedPrefix,
	RecipientOrgUnrecognisedPrefix,
	RecipientOrgCharityNumber,
	RecipientOrgCompanyNumber,
	OrganizationIdLooksInvalid,
	MoreThanOneFundingOrg,
	LooksLikeEmail,
	ImpossibleDates,
	PlannedStartDateBeforeEndDate,
	ActualStartDateBeforeEndDate,
	FarFuturePlannedDates,
	FarFutureActualDates,
	FarPastDates,
	PostDatedAwardDates,
	RecipientIndWithoutToIndividualsDetails,
	RecipientIndDEI,
	GeoCodePostcode,
}

// UsefulnessChecks are the usefulness checks, in run order.
var UsefulnessChecks = []*Kind{
	RecipientOrg360GPrefix,
	FundingOrg360GPrefix,
	NoRecipientOrgCompanyCharityNumber,
	IncompleteRecipientOrg,
	NoGrantProgramme,
	NoBeneficiaryLocation,
	TitleDescriptionSame,
	TitleLength,
	NoLastModified,
	NoDataSource,
}

// FieldChecks report fields that are missing from grants. They are not run
// by default.
var FieldChecks = []*Kind{
	ClassificationNotPresent,
	BeneficiaryLocationNameNotPresent,
	BeneficiaryLocationCountryCodeNotPresent,
	BeneficiaryLocationGeoCodeNotPresent,
	PlannedDurationNotPresent,
	GrantProgrammeTitleNotPresent,
	IndividualsCodeListsNotPresent,
}

// DefaultClasses are run when no class is requested.
var DefaultClasses = []Class{QualityAccuracy, Usefulness}

// Classes lists every known class.
func Classes() []Class {
	return []Class{QualityAccuracy, Usefulness, FieldPresence}
}

// KindsFor returns the checks of class in run order.
func KindsFor(class Class) ([]*Kind, bool) {
	switch class {
	case QualityAccuracy:
		return QualityChecks, true
	case Usefulness:
		return UsefulnessChecks, true
	case FieldPresence:
		return FieldChecks, true
	default:
		return nil, false
	}
}

// ParseClass resolves a class name, ignoring case and surrounding space.
func ParseClass(name string) (Class, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Classes() {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// KindByName finds a check of any class by its name.
func KindByName(name string) (*Kind, bool) {
	for _, class := range Classes() {
		kinds, _ := KindsFor(class)
		for _, k := range kinds {
			if k.Name == name {
				return k, true
			}
		}
	}
	return nil, false
}

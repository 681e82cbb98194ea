package catalog

import "github.com/avosdroits/avosdroits-backend/internal/domain/catalog"

func fptr(v float64) *float64 { return &v }

// BuiltinQuestions is the default questionnaire definition, used when no seed
// file is configured. Prompts are user-facing and stay in French.
func BuiltinQuestions() []catalog.Question {
	return []catalog.Question{
		// Informations Personnelles
		{
			ID: "name", SectionID: catalog.SectionPersonalInfo,
			Prompt: "Quel est votre nom complet ?",
			Type:   catalog.TypeText, Required: true, Order: 1,
		},
		{
			ID: "age", SectionID: catalog.SectionPersonalInfo,
			Prompt: "Quel est votre âge ?",
			Type:   catalog.TypeNumber, Required: true, Order: 2,
			Rule: &catalog.Rule{Min: fptr(0), Max: fptr(150)},
		},
		{
			ID: "nationality", SectionID: catalog.SectionPersonalInfo,
			Prompt: "Quelle est votre nationalité ?",
			Type:   catalog.TypeText, Required: true, Order: 3,
		},
		{
			ID: "birth_date", SectionID: catalog.SectionPersonalInfo,
			Prompt: "Quelle est votre date de naissance ?",
			Type:   catalog.TypeDate, Required: true, Order: 4,
		},

		// Situation Familiale
		{
			ID: "marital_status", SectionID: catalog.SectionFamilyStatus,
			Prompt: "Quelle est votre situation matrimoniale ?",
			Type:   catalog.TypeSelect, Required: true, Order: 1,
			Options: []catalog.Option{
				{Value: "single", Label: "Célibataire", Order: 1},
				{Value: "married", Label: "Marié(e)", Order: 2},
				{Value: "pacs", Label: "Pacsé(e)", Order: 3},
				{Value: "divorced", Label: "Divorcé(e)", Order: 4},
				{Value: "widowed", Label: "Veuf/Veuve", Order: 5},
			},
		},
		{
			ID: "dependents", SectionID: catalog.SectionFamilyStatus,
			Prompt: "Combien de personnes avez-vous à charge ?",
			Type:   catalog.TypeNumber, Required: true, Order: 2,
			Rule: &catalog.Rule{Min: fptr(0), Max: fptr(20)},
		},

		// Logement
		{
			ID: "housing_type", SectionID: catalog.SectionHousing,
			Prompt: "Quel est votre type de logement ?",
			Type:   catalog.TypeSelect, Required: true, Order: 1,
			Options: []catalog.Option{
				{Value: "owner", Label: "Propriétaire", Order: 1},
				{Value: "tenant", Label: "Locataire", Order: 2},
				{Value: "hosted", Label: "Hébergé(e)", Order: 3},
				{Value: "homeless", Label: "Sans domicile", Order: 4},
			},
		},
		{
			ID: "current_address", SectionID: catalog.SectionHousing,
			Prompt: "Quelle est votre adresse actuelle ?",
			Type:   catalog.TypeText, Required: true, Order: 2,
		},
		{
			ID: "residence_duration", SectionID: catalog.SectionHousing,
			Prompt: "Depuis combien de temps habitez-vous à cette adresse ?",
			Type:   catalog.TypeText, Required: true, Order: 3,
		},

		// Emploi et Revenus
		{
			ID: "employment_status", SectionID: catalog.SectionEmployment,
			Prompt: "Quelle est votre situation professionnelle ?",
			Type:   catalog.TypeSelect, Required: true, Order: 1,
			Options: []catalog.Option{
				{Value: "employed", Label: "Salarié(e)", Order: 1},
				{Value: "self_employed", Label: "Indépendant(e)", Order: 2},
				{Value: "unemployed", Label: "Sans emploi", Order: 3},
				{Value: "student", Label: "Étudiant(e)", Order: 4},
				{Value: "retired", Label: "Retraité(e)", Order: 5},
			},
		},
		{
			ID: "sector", SectionID: catalog.SectionEmployment,
			Prompt: "Dans quel secteur travaillez-vous ?",
			Type:   catalog.TypeText, Required: false, Order: 2,
		},
		{
			ID: "contract_type", SectionID: catalog.SectionEmployment,
			Prompt: "Quel est votre type de contrat ?",
			Type:   catalog.TypeText, Required: false, Order: 3,
		},
		{
			ID: "monthly_income", SectionID: catalog.SectionEmployment,
			Prompt: "Quel est votre revenu mensuel net ?",
			Type:   catalog.TypeNumber, Required: false, Order: 4,
			Rule: &catalog.Rule{Min: fptr(0)},
		},
		{
			ID: "job_seeker", SectionID: catalog.SectionEmployment,
			Prompt: "Êtes-vous inscrit(e) comme demandeur d'emploi ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 5,
		},

		// Situation Sociale
		{
			ID: "health_issues", SectionID: catalog.SectionSocialSituation,
			Prompt: "Avez-vous des problèmes de santé ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 1,
		},
		{
			ID: "disability", SectionID: catalog.SectionSocialSituation,
			Prompt: "Êtes-vous en situation de handicap ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 2,
		},
		{
			ID: "immigrant_status", SectionID: catalog.SectionSocialSituation,
			Prompt: "Êtes-vous en situation d'immigration ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 3,
		},
		{
			ID: "social_benefits", SectionID: catalog.SectionSocialSituation,
			Prompt: "Percevez-vous des aides sociales ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 4,
		},
		{
			ID: "debts", SectionID: catalog.SectionSocialSituation,
			Prompt: "Avez-vous des dettes en cours ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 5,
		},
		{
			ID: "housing_assistance", SectionID: catalog.SectionSocialSituation,
			Prompt: "Percevez-vous une aide au logement ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 6,
		},
		{
			ID: "family_allowance", SectionID: catalog.SectionSocialSituation,
			Prompt: "Percevez-vous des allocations familiales ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 7,
		},
		{
			ID: "other_income", SectionID: catalog.SectionSocialSituation,
			Prompt: "Avez-vous d'autres sources de revenus ?",
			Type:   catalog.TypeBoolean, Required: true, Order: 8,
		},
	}
}

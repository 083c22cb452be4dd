package interaction

func strPtr(s string) *string { return &s }

// ReferenceTable is the built-in interaction knowledge table, used when no
// drug_interaction rows exist in the database. It is not a complete
// pharmacology source; absence of a pair here means "no known interaction",
// not "verified safe".
func ReferenceTable() []DrugInteraction {
	return []DrugInteraction{
		// Anticoagulants
		{
			DrugA: "warfarin", DrugB: "aspirin",
			Severity:    SeverityMajor,
			Description: "Increased risk of bleeding",
			Mechanism:   strPtr("Both drugs affect hemostasis through different mechanisms"),
			Management:  strPtr("Avoid combination unless specifically prescribed. Monitor for bleeding signs."),
			MonitoringRequired: true,
			AvoidCombination:   true,
		},
		{
			DrugA: "warfarin", DrugB: "ibuprofen",
			Severity:    SeverityMajor,
			Description: "Increased bleeding risk and anticoagulant effect",
			Mechanism:   strPtr("NSAIDs inhibit platelet function and may increase warfarin levels"),
			Management:  strPtr("Use acetaminophen instead. If NSAID needed, use lowest dose for shortest time."),
			MonitoringRequired: true,
			AvoidCombination:   true,
		},

		// ACE inhibitors
		{
			DrugA: "lisinopril", DrugB: "potassium",
			Severity:    SeverityMajor,
			Description: "Risk of hyperkalemia",
			Mechanism:   strPtr("ACE inhibitors reduce potassium excretion"),
			Management:  strPtr("Monitor potassium levels closely. Usually avoid combination."),
			MonitoringRequired: true,
		},
		{
			DrugA: "lisinopril", DrugB: "losartan",
			Severity:    SeverityMajor,
			Description: "Dual RAAS blockade - increased adverse effects",
			Mechanism:   strPtr("Both block the renin-angiotensin system"),
			Management:  strPtr("Generally avoid combination. Not recommended."),
			AvoidCombination: true,
		},
		{
			DrugA: "lisinopril", DrugB: "spironolactone",
			Severity:    SeverityModerate,
			Description: "Increased risk of hyperkalemia",
			Mechanism:   strPtr("Both drugs can increase potassium levels"),
			Management:  strPtr("Monitor potassium regularly. Low potassium diet may help."),
			MonitoringRequired: true,
		},

		// Statins
		{
			DrugA: "atorvastatin", DrugB: "gemfibrozil",
			Severity:    SeverityMajor,
			Description: "Increased risk of myopathy and rhabdomyolysis",
			Mechanism:   strPtr("Gemfibrozil inhibits statin metabolism"),
			Management:  strPtr("Avoid combination. Use fenofibrate if fibrate needed."),
			AvoidCombination: true,
		},
		{
			DrugA: "atorvastatin", DrugB: "clarithromycin",
			Severity:    SeverityMajor,
			Description: "Increased statin levels and myopathy risk",
			Mechanism:   strPtr("Clarithromycin inhibits CYP3A4 metabolism of statin"),
			Management:  strPtr("Temporarily suspend statin or use azithromycin instead."),
			AvoidCombination: true,
		},
		{
			DrugA: "simvastatin", DrugB: "amlodipine",
			Severity:    SeverityModerate,
			Description: "Increased simvastatin levels",
			Mechanism:   strPtr("Amlodipine inhibits CYP3A4"),
			Management:  strPtr("Limit simvastatin to 20mg daily when combined with amlodipine."),
		},

		// Metformin
		{
			DrugA: "metformin", DrugB: "contrastdye",
			Severity:    SeverityMajor,
			Description: "Risk of contrast-induced nephropathy and lactic acidosis",
			Mechanism:   strPtr("Contrast may impair renal function, affecting metformin clearance"),
			Management:  strPtr("Hold metformin 48 hours before and after contrast procedures."),
			SeparationHours: 48,
		},
		{
			DrugA: "metformin", DrugB: "alcohol",
			Severity:    SeverityModerate,
			Description: "Increased risk of lactic acidosis and hypoglycemia",
			Mechanism:   strPtr("Alcohol impairs gluconeogenesis and lactate metabolism"),
			Management:  strPtr("Limit alcohol intake. Avoid binge drinking."),
		},

		// Thyroid
		{
			DrugA: "levothyroxine", DrugB: "calcium",
			Severity:    SeverityModerate,
			Description: "Reduced levothyroxine absorption",
			Mechanism:   strPtr("Calcium binds levothyroxine in GI tract"),
			Management:  strPtr("Separate doses by at least 4 hours."),
			SeparationHours: 4,
		},
		{
			DrugA: "levothyroxine", DrugB: "iron",
			Severity:    SeverityModerate,
			Description: "Reduced levothyroxine absorption",
			Mechanism:   strPtr("Iron binds levothyroxine in GI tract"),
			Management:  strPtr("Separate doses by at least 4 hours."),
			SeparationHours: 4,
		},
		{
			DrugA: "levothyroxine", DrugB: "omeprazole",
			Severity:    SeverityMinor,
			Description: "Potentially reduced levothyroxine absorption",
			Mechanism:   strPtr("Altered gastric pH may affect absorption"),
			Management:  strPtr("Monitor thyroid function. May need dose adjustment."),
		},

		// SSRIs
		{
			DrugA: "sertraline", DrugB: "tramadol",
			Severity:    SeverityMajor,
			Description: "Risk of serotonin syndrome and seizures",
			Mechanism:   strPtr("Both drugs increase serotonin activity"),
			Management:  strPtr("Avoid combination if possible. Monitor for serotonin syndrome symptoms."),
			AvoidCombination: true,
		},
		{
			DrugA: "sertraline", DrugB: "maoi",
			Severity:    SeverityContraindicated,
			Description: "Life-threatening serotonin syndrome",
			Mechanism:   strPtr("Severe excess serotonin activity"),
			Management:  strPtr("NEVER combine. Wait 14 days between stopping MAOI and starting SSRI."),
			AvoidCombination: true,
		},

		// Beta blockers
		{
			DrugA: "metoprolol", DrugB: "verapamil",
			Severity:    SeverityMajor,
			Description: "Additive cardiac depression",
			Mechanism:   strPtr("Both drugs slow heart rate and conduction"),
			Management:  strPtr("Avoid combination. Use with extreme caution if necessary."),
			MonitoringRequired: true,
		},
		{
			DrugA: "metoprolol", DrugB: "clonidine",
			Severity:    SeverityModerate,
			Description: "Rebound hypertension risk if clonidine stopped",
			Mechanism:   strPtr("Beta blockers can exacerbate clonidine withdrawal"),
			Management:  strPtr("Taper clonidine gradually. Stop beta blocker several days before clonidine."),
		},

		// Gabapentinoids
		{
			DrugA: "gabapentin", DrugB: "opioids",
			Severity:    SeverityMajor,
			Description: "Increased risk of respiratory depression",
			Mechanism:   strPtr("Additive CNS depression"),
			Management:  strPtr("Use lowest effective doses. Monitor closely."),
			MonitoringRequired: true,
		},

		// PPIs
		{
			DrugA: "omeprazole", DrugB: "clopidogrel",
			Severity:    SeverityModerate,
			Description: "Reduced clopidogrel effectiveness",
			Mechanism:   strPtr("Omeprazole inhibits CYP2C19 activation of clopidogrel"),
			Management:  strPtr("Use pantoprazole instead if PPI needed."),
		},

		// Fluoroquinolones
		{
			DrugA: "ciprofloxacin", DrugB: "antacids",
			Severity:    SeverityModerate,
			Description: "Reduced ciprofloxacin absorption",
			Mechanism:   strPtr("Metal cations bind ciprofloxacin"),
			Management:  strPtr("Take ciprofloxacin 2 hours before or 6 hours after antacids."),
			SeparationHours: 2,
		},
		{
			DrugA: "ciprofloxacin", DrugB: "theophylline",
			Severity:    SeverityMajor,
			Description: "Increased theophylline toxicity",
			Mechanism:   strPtr("Ciprofloxacin inhibits theophylline metabolism"),
			Management:  strPtr("Reduce theophylline dose by 30-50%. Monitor levels."),
			MonitoringRequired: true,
		},
	}
}

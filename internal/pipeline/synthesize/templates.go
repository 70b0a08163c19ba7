// internal/pipeline/synthesize/templates.go
package synthesize

import "krishisahay/internal/pipeline/categorize"

// intros open a snippet-backed answer, one per category.
var intros = map[categorize.Category]string{
	categorize.CategoryCrops:       "Here is guidance on crop cultivation for your question:",
	categorize.CategoryPests:       "Here is guidance on pest and disease management for your question:",
	categorize.CategoryFertilizers: "Here is guidance on fertilizers and soil nutrition for your question:",
	categorize.CategorySchemes:     "Here is information on government schemes relevant to your question:",
	categorize.CategoryWeather:     "Here is weather and irrigation guidance for your question:",
	categorize.CategoryGeneral:     "Here is some agricultural guidance for your question:",
}

// fallbacks are the hand-authored answers used when no knowledge snippets
// are available for a category. Content follows standard Indian agricultural
// extension advice (ICAR/KVK recommendations).
var fallbacks = map[categorize.Category]string{
	categorize.CategoryCrops: `For healthy crop cultivation, start with certified seeds suited to your agro-climatic zone. Prepare the field with 2-3 ploughings and add well-decomposed farmyard manure before sowing.

Follow the recommended sowing window for your region: kharif crops with the monsoon onset (June-July), rabi crops after the monsoon withdraws (October-November). Maintain proper plant spacing and seed rate - for rice, 20-25 kg seeds per hectare with 5-7 cm standing water during early growth.

Rotate cereals with pulses to preserve soil fertility, and consult your nearest Krishi Vigyan Kendra (KVK) for variety recommendations specific to your soil and climate.`,

	categorize.CategoryPests: `Use integrated pest management (IPM) before reaching for chemicals. Inspect your field regularly - early detection keeps control cheap and effective.

Start with cultural controls: remove crop residues, maintain field hygiene, and rotate crops to break pest cycles. Use neem-based organic pesticides as the first line of defense. Install pheromone traps (4-5 per acre) to monitor moth pests.

If chemical control becomes necessary, use only recommended doses, spray in the evening to spare pollinators, and observe the waiting period before harvest. Your local agricultural extension officer can identify the pest from a photo or sample.`,

	categorize.CategoryFertilizers: `Apply fertilizers based on a soil test rather than a fixed recipe - your soil may already have enough of some nutrients. Soil testing is available free or subsidized at district soil testing laboratories.

As a general guide, an NPK ratio of 4:2:1 suits most cereals. Apply nitrogen in split doses: half at sowing, a quarter at tillering, a quarter at flowering. Phosphorus and potash go in full at sowing.

Combine chemical fertilizer with organic sources - compost, farmyard manure, green manuring with dhaincha or sunhemp - to maintain soil structure and microbial health over the long term.`,

	categorize.CategorySchemes: `Several central government schemes support farmers. PM-KISAN provides Rs 6,000 per year in three installments to eligible landholding farmers - register through your village patwari or the PM-KISAN portal.

Pradhan Mantri Fasal Bima Yojana (PMFBY) insures crops against natural calamities at a nominal premium (2% for kharif, 1.5% for rabi). The Kisan Credit Card (KCC) gives access to crop loans at subsidized interest rates.

Visit your nearest Common Service Centre or bank branch with land records and Aadhaar to apply. State-specific schemes may offer additional support - ask at your block agriculture office.`,

	categorize.CategoryWeather: `Plan field operations around the weather rather than the calendar. Sow kharif crops only after sufficient monsoon rain has wet the soil profile - dry sowing risks patchy germination.

For irrigation, follow critical growth stages: crown root initiation and flowering for wheat, tillering and panicle initiation for rice. Avoid irrigation just before expected rain to prevent waterlogging.

Check the IMD district-level forecast and the Meghdoot advisory app for five-day outlooks. During drought spells, mulch between rows to conserve soil moisture, and prefer short-duration varieties if sowing is delayed.`,

	categorize.CategoryGeneral: `Thank you for your question. For detailed advice specific to your farm, please consult your local agricultural extension officer or visit the nearest Krishi Vigyan Kendra (KVK) - they provide region-specific guidance based on your soil type and climate.

Meanwhile, the fundamentals that serve every farm: test your soil every 2-3 years, use certified seeds, rotate crops, and keep farm records of inputs and yields so you can compare seasons.

You can also call the Kisan Call Centre at 1800-180-1551 for free advice in your language.`,
}

// Fallback returns the static answer for a category. Unknown categories get
// the general template so the synthesizer is total.
func Fallback(category categorize.Category) string {
	if text, ok := fallbacks[category]; ok {
		return text
	}
	return fallbacks[categorize.CategoryGeneral]
}

func intro(category categorize.Category) string {
	if text, ok := intros[category]; ok {
		return text
	}
	return intros[categorize.CategoryGeneral]
}

package appraisal

import (
	"fmt"
	"strings"
)

const scanSystemPrompt = "You are an expert appraiser and marketplace copywriter, focused on " +
	"realistic resale value, item categorization, and authentication."

const verifySystemPrompt = "You are an expert appraiser, skilled at determining the true market " +
	"value of items based on their image, condition, and source."

// buildScanPrompt produces the user prompt for a full item scan.
func buildScanPrompt(photoDataURI string) string {
	var b strings.Builder

	b.WriteString("A user has provided a photo of an item.\n\n")
	b.WriteString("**Primary Task:**\n")
	b.WriteString("1. **Identify** the item and assign a **categoryTag**.\n")
	b.WriteString("2. Determine a realistic price range based on **completed sales data**.\n")
	b.WriteString("3. Assess the item's **authenticity** (if applicable) and set the **authenticityVerdict**.\n")
	b.WriteString("4. **CRITICAL: Write a great listing.**\n")
	b.WriteString("   - Generate a **suggestedTitle** that is clear, descriptive, and includes keywords a buyer would search for.\n")
	b.WriteString("   - Write a **suggestedDescription** that is compelling and informative, mentioning key features and condition.\n\n")
	b.WriteString("**CRITICAL PRICING RULE (The \"Real Human Logic\"):**\n")
	b.WriteString("- If the item is suitable for resale (i.e., not a hygiene, safety, or opened consumable risk), set **priceType** to **RESALE**.\n")
	b.WriteString("- If the item has **no resale value** (due to safety, hygiene, or being an opened consumable), set **priceType** to **RETAIL**. The prices you provide must then be the estimated **original retail value**.\n\n")
	b.WriteString("**CRITICAL BUSINESS RULE:**\n")
	b.WriteString("- Set **isConsignmentViable** to **true** ONLY if **priceType** is **RESALE** AND **authenticityVerdict** is **AUTHENTIC** or **LOW_RISK**. Otherwise, set it to **false**.\n\n")
	fmt.Fprintf(&b, "Photo: {{photo:%s}}\n\n", photoDataURI)
	b.WriteString("Respond strictly with the requested JSON output structure.\n")

	return b.String()
}

// buildVerifyPrompt produces the user prompt for a value
// verification. The rubric is handed to the model verbatim; the
// engine re-enforces it deterministically afterward.
func buildVerifyPrompt(input VerificationInput) string {
	var b strings.Builder

	b.WriteString("First, identify the item. ")
	b.WriteString("Then, use the following data and multipliers to calculate a realistic resale value range.\n\n")

	b.WriteString("CORE_MARKET_DATA = {\n")
	b.WriteString("    \"Gaming Laptop (Mid-Tier)\": { avg_resale: 650.00 },\n")
	b.WriteString("    \"KitchenAid Stand Mixer (Used)\": { avg_resale: 150.00 },\n")
	b.WriteString("    \"Vintage Vinyl Record (Specific Title)\": { avg_resale: 15.00 },\n")
	b.WriteString("    \"Unopened Lego Set (Current)\": { avg_resale: 80.00 },\n")
	b.WriteString("}\n\n")

	b.WriteString("CONDITION_MULTIPLIERS = {\n")
	b.WriteString("    \"New (Sealed)\": 1.25,\n")
	b.WriteString("    \"Excellent (Like New)\": 1.05,\n")
	b.WriteString("    \"Good (Used, Working)\": 0.90,\n")
	b.WriteString("    \"Fair (Scratches/Minor Issue)\": 0.70,\n")
	b.WriteString("}\n\n")

	b.WriteString("SOURCE_MULTIPLIERS = {\n")
	b.WriteString("    \"Personal Garage/Storage\": 0.95,\n")
	b.WriteString("    \"Yard Sale/Flea Market (Buying)\": 0.65,\n")
	b.WriteString("    \"Retail Store (Walmart/Target)\": 1.20,\n")
	b.WriteString("    \"Online Marketplace (eBay/Poshmark)\": 1.00,\n")
	b.WriteString("}\n\n")

	b.WriteString("Calculation Steps:\n")
	b.WriteString("1. Find the 'avg_resale' price for the identified item from CORE_MARKET_DATA. If not found, use a reasonable estimate.\n")
	fmt.Fprintf(&b, "2. Get the 'condition_multiplier' for the user's input: %s.\n", input.Condition)
	fmt.Fprintf(&b, "3. Get the 'source_multiplier' for the user's input: %s.\n", input.Source)
	b.WriteString("4. Calculate 'base_rsp' = avg_resale * condition_multiplier.\n")
	b.WriteString("5. Calculate 'min_resale_value' = base_rsp * 0.85.\n")
	b.WriteString("6. Calculate 'max_resale_value' = base_rsp * 1.15 * source_multiplier.\n")
	b.WriteString("7. Ensure min_resale_value is not greater than max_resale_value. If it is, set min_resale_value = max_resale_value * 0.9.\n")
	b.WriteString("8. Create a 'justification' string explaining how the base price was adjusted by the multipliers.\n")
	b.WriteString("9. Assign a 'categoryTag' and estimate the item's original retail price as 'estimatedRetailPrice'.\n\n")

	b.WriteString("Analyze the following inputs:\n")
	if input.PhotoDataURI != "" {
		fmt.Fprintf(&b, "Photo: {{photo:%s}}\n", input.PhotoDataURI)
	} else {
		fmt.Fprintf(&b, "Item: %s\n", input.ItemName)
	}
	fmt.Fprintf(&b, "Condition: %s\n", input.Condition)
	fmt.Fprintf(&b, "Source: %s\n\n", input.Source)

	b.WriteString("Respond with the identified item name, the min/max resale values, and a justification.\n")

	return b.String()
}

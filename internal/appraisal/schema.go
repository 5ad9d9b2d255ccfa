package appraisal

// JSON schemas handed to the structured-output API. The engine
// re-validates everything the model returns; the schema just keeps
// the response shape on rails.

const scanSchema = `{
  "type": "object",
  "properties": {
    "suggestedTitle": {"type": "string"},
    "suggestedDescription": {"type": "string"},
    "categoryTag": {
      "type": "string",
      "enum": ["LUXURY_GOODS", "POWER_TOOL", "VINTAGE_COLLECTIBLE", "SAFETY_HYGIENE", "CONSUMABLE", "GENERAL"]
    },
    "priceType": {"type": "string", "enum": ["RESALE", "RETAIL"]},
    "minPrice": {"type": "number"},
    "maxPrice": {"type": "number"},
    "appraisalNote": {"type": "string"},
    "authenticityVerdict": {
      "type": "string",
      "enum": ["AUTHENTIC", "POSSIBLE_FAKE", "LOW_RISK"]
    },
    "isConsignmentViable": {"type": "boolean"}
  },
  "required": ["suggestedTitle", "suggestedDescription", "categoryTag", "priceType", "minPrice", "maxPrice", "appraisalNote", "authenticityVerdict", "isConsignmentViable"]
}`

const verifySchema = `{
  "type": "object",
  "properties": {
    "itemName": {"type": "string"},
    "minResaleValue": {"type": "number"},
    "maxResaleValue": {"type": "number"},
    "justification": {"type": "string"},
    "categoryTag": {
      "type": "string",
      "enum": ["LUXURY_GOODS", "POWER_TOOL", "VINTAGE_COLLECTIBLE", "SAFETY_HYGIENE", "CONSUMABLE", "GENERAL"]
    },
    "estimatedRetailPrice": {"type": "number"}
  },
  "required": ["itemName", "minResaleValue", "maxResaleValue", "justification", "categoryTag", "estimatedRetailPrice"]
}`

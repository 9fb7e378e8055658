package mcpserver

// DatasetFormat describes the exchange layout used by export, import and
// the persisted slot.
const DatasetFormat = `# Dataset Format

A dataset is one JSON object with four members. ` + "`nodes`" + ` and ` + "`flows`" + ` are
required; ` + "`businessProcesses`" + ` and ` + "`teams`" + ` may be omitted.

` + "```" + `json
{
  "nodes": [
    {
      "id": "rdc1",
      "type": "rdc",
      "name": "Regional DC Scotland",
      "temp": ["ambient", "chilled", "frozen"],
      "operator": "Company A",
      "location": "Glasgow",
      "systems": ["WMS-A", "Allocation Engine"]
    }
  ],
  "flows": [
    {"id": "f13", "from": "rdc1", "to": "store1", "type": "delivery", "temp": "multi"}
  ],
  "businessProcesses": {
    "store": {
      "name": "Store Operations",
      "logical": "store",
      "steps": [{"id": "bp17", "name": "Receive Delivery", "systems": ["POS"], "description": "..."}]
    }
  },
  "teams": {
    "WMS-A": {"name": "Warehouse Systems Team A", "contact": "wms-a@company.com"}
  }
}
` + "```" + `

## Rules

1. Node ` + "`type`" + ` is one of supplier, ndc, primary, rdc, store.
2. Node ` + "`temp`" + ` is a non-empty list drawn from ambient, chilled, frozen.
3. ` + "`operator`" + ` is a company name or null for an unoperated node.
4. Flow ` + "`temp`" + ` is ambient, chilled, frozen or multi. ` + "`hasASN`" + ` is optional.
5. Node ids are unique, flow ids are unique, and every flow's ` + "`from`" + `/` + "`to`" + ` names an existing node.
6. ` + "`teams`" + ` is keyed by system name; each system has at most one owning team.
7. Locations resolve on the map only for the known UK cities: Glasgow, Edinburgh,
   Manchester, Leeds, Sheffield, Doncaster, Birmingham, Nottingham, Milton Keynes,
   Reading, Bristol.
`

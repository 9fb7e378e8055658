package dataset

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

var (
	companyA = "Company A"
	companyB = "Company B"
)

func temps(t ...TempRegime) []TempRegime { return t }

// builtin is never handed out directly; Defaults returns a deep copy.
var builtin = Dataset{
	Nodes: []Node{
		{ID: "sup1", Type: NodeSupplier, Name: "Fresh Foods Ltd", Temp: temps(TempChilled, TempAmbient), Location: "Manchester", Systems: []string{"SAP", "EDI Gateway"}},
		{ID: "sup2", Type: NodeSupplier, Name: "Frozen Goods Co", Temp: temps(TempFrozen), Location: "Leeds", Systems: []string{"Oracle", "EDI Gateway"}},
		{ID: "sup3", Type: NodeSupplier, Name: "Ambient Supplies", Temp: temps(TempAmbient), Location: "Birmingham", Systems: []string{"Custom ERP"}},

		{ID: "ndc1", Type: NodeNDC, Name: "National DC North", Temp: temps(TempAmbient, TempFrozen), Operator: &companyA, Location: "Doncaster", Systems: []string{"WMS-A", "TMS", "Stock System"}},
		{ID: "ndc2", Type: NodeNDC, Name: "National DC South", Temp: temps(TempAmbient, TempFrozen), Operator: &companyB, Location: "Milton Keynes", Systems: []string{"WMS-B", "TMS", "Stock System"}},

		{ID: "pri1", Type: NodePrimary, Name: "Primary Hub North", Temp: temps(TempChilled), Operator: &companyA, Location: "Sheffield", Systems: []string{"Cross-Dock System", "TMS"}},
		{ID: "pri2", Type: NodePrimary, Name: "Primary Hub South", Temp: temps(TempChilled), Operator: &companyB, Location: "Reading", Systems: []string{"Cross-Dock System", "TMS"}},

		{ID: "rdc1", Type: NodeRDC, Name: "Regional DC Scotland", Temp: temps(TempAmbient, TempChilled, TempFrozen), Operator: &companyA, Location: "Glasgow", Systems: []string{"WMS-A", "Allocation Engine"}},
		{ID: "rdc2", Type: NodeRDC, Name: "Regional DC Midlands", Temp: temps(TempAmbient, TempChilled, TempFrozen), Operator: &companyA, Location: "Nottingham", Systems: []string{"WMS-A", "Allocation Engine"}},
		{ID: "rdc3", Type: NodeRDC, Name: "Regional DC South West", Temp: temps(TempAmbient, TempChilled, TempFrozen), Operator: &companyB, Location: "Bristol", Systems: []string{"WMS-B", "Allocation Engine"}},

		{ID: "store1", Type: NodeStore, Name: "Store Glasgow Central", Temp: temps(TempAmbient, TempChilled, TempFrozen), Location: "Glasgow", Systems: []string{"POS", "Stock Counter", "Ordering System"}},
		{ID: "store2", Type: NodeStore, Name: "Store Edinburgh", Temp: temps(TempAmbient, TempChilled, TempFrozen), Location: "Edinburgh", Systems: []string{"POS", "Stock Counter", "Ordering System"}},
		{ID: "store3", Type: NodeStore, Name: "Store Birmingham", Temp: temps(TempAmbient, TempChilled, TempFrozen), Location: "Birmingham", Systems: []string{"POS", "Stock Counter", "Ordering System"}},
		{ID: "store4", Type: NodeStore, Name: "Store Bristol", Temp: temps(TempAmbient, TempChilled, TempFrozen), Location: "Bristol", Systems: []string{"POS", "Stock Counter", "Ordering System"}},
	},
	Flows: []Flow{
		{ID: "f1", From: "sup1", To: "pri1", Type: FlowInbound, HasASN: boolPtr(true), Temp: TempChilled},
		{ID: "f2", From: "sup1", To: "ndc1", Type: FlowInbound, HasASN: boolPtr(true), Temp: TempAmbient},
		{ID: "f3", From: "sup2", To: "ndc1", Type: FlowInbound, HasASN: boolPtr(false), Temp: TempFrozen},
		{ID: "f4", From: "sup3", To: "ndc2", Type: FlowInbound, HasASN: boolPtr(true), Temp: TempAmbient},
		{ID: "f5", From: "sup1", To: "pri2", Type: FlowInbound, HasASN: boolPtr(true), Temp: TempChilled},
		{ID: "f6", From: "ndc1", To: "rdc1", Type: FlowTransfer, Temp: TempAmbient},
		{ID: "f7", From: "ndc1", To: "rdc1", Type: FlowTransfer, Temp: TempFrozen},
		{ID: "f8", From: "ndc1", To: "rdc2", Type: FlowTransfer, Temp: TempAmbient},
		{ID: "f9", From: "ndc2", To: "rdc3", Type: FlowTransfer, Temp: TempAmbient},
		{ID: "f10", From: "pri1", To: "rdc1", Type: FlowCrossdock, Temp: TempChilled},
		{ID: "f11", From: "pri1", To: "rdc2", Type: FlowCrossdock, Temp: TempChilled},
		{ID: "f12", From: "pri2", To: "rdc3", Type: FlowCrossdock, Temp: TempChilled},
		{ID: "f13", From: "rdc1", To: "store1", Type: FlowDelivery, Temp: TempMulti},
		{ID: "f14", From: "rdc1", To: "store2", Type: FlowDelivery, Temp: TempMulti},
		{ID: "f15", From: "rdc2", To: "store3", Type: FlowDelivery, Temp: TempMulti},
		{ID: "f16", From: "rdc3", To: "store4", Type: FlowDelivery, Temp: TempMulti},
	},
	BusinessProcesses: map[string]BusinessProcess{
		"inbound": {
			Name:    "External Inbound",
			Logical: "supplier",
			Steps: []Step{
				{ID: "bp1", Name: "ASN Transmission", Systems: []string{"EDI Gateway", "SAP", "Oracle"}, Description: "Supplier sends Advanced Shipping Notice"},
				{ID: "bp2", Name: "ASN Receipt", Systems: []string{"WMS-A", "WMS-B"}, Description: "DC receives and validates ASN"},
				{ID: "bp3", Name: "Vehicle Arrival", Systems: []string{"Yard Management", "TMS"}, Description: "Vehicle checks in at DC"},
				{ID: "bp4", Name: "Goods Receipt", Systems: []string{"WMS-A", "WMS-B", "Stock System"}, Description: "Physical receipt and system booking"},
				{ID: "bp5", Name: "Quality Check", Systems: []string{"WMS-A", "WMS-B"}, Description: "Temperature and quality verification"},
				{ID: "bp6", Name: "Putaway", Systems: []string{"WMS-A", "WMS-B"}, Description: "Stock moved to storage location"},
			},
		},
		"warehouse": {
			Name:    "Warehouse Operations",
			Logical: "dc",
			Steps: []Step{
				{ID: "bp7", Name: "Inventory Management", Systems: []string{"WMS-A", "WMS-B", "Stock System"}, Description: "Stock counting and adjustments"},
				{ID: "bp8", Name: "Replenishment", Systems: []string{"WMS-A", "WMS-B"}, Description: "Pick face replenishment"},
				{ID: "bp9", Name: "Order Allocation", Systems: []string{"Allocation Engine"}, Description: "Allocate stock to store orders"},
				{ID: "bp10", Name: "Pick", Systems: []string{"WMS-A", "WMS-B"}, Description: "Pick items for orders"},
				{ID: "bp11", Name: "Dispatch", Systems: []string{"WMS-A", "WMS-B", "TMS"}, Description: "Load and dispatch to stores"},
			},
		},
		"crossdock": {
			Name:    "Cross-Dock (Chilled)",
			Logical: "primary",
			Steps: []Step{
				{ID: "bp12", Name: "Supplier Delivery", Systems: []string{"Cross-Dock System"}, Description: "Chilled goods arrive at Primary"},
				{ID: "bp13", Name: "Sortation", Systems: []string{"Cross-Dock System"}, Description: "Sort by destination RDC"},
				{ID: "bp14", Name: "Consolidation", Systems: []string{"Cross-Dock System", "TMS"}, Description: "Consolidate for onward delivery"},
				{ID: "bp15", Name: "Dispatch to RDC", Systems: []string{"TMS"}, Description: "Ship to Regional DC"},
			},
		},
		"store": {
			Name:    "Store Operations",
			Logical: "store",
			Steps: []Step{
				{ID: "bp16", Name: "Delivery Receipt", Systems: []string{"Stock Counter"}, Description: "Receive delivery from RDC"},
				{ID: "bp17", Name: "Stock to Shelf", Systems: []string{"Stock Counter"}, Description: "Replenish store shelves"},
				{ID: "bp18", Name: "Sales", Systems: []string{"POS"}, Description: "Customer transactions"},
				{ID: "bp19", Name: "Stock Count", Systems: []string{"Stock Counter"}, Description: "Regular stock counts"},
				{ID: "bp20", Name: "Sales Data Export", Systems: []string{"POS", "Forecasting System"}, Description: "Send sales data for forecasting"},
			},
		},
		"forecasting": {
			Name:    "Planning & Forecasting",
			Logical: "planning",
			Steps: []Step{
				{ID: "bp21", Name: "Demand Forecast", Systems: []string{"Forecasting System"}, Description: "Generate demand forecasts"},
				{ID: "bp22", Name: "Order Generation", Systems: []string{"Ordering System", "Allocation Engine"}, Description: "Create replenishment orders"},
				{ID: "bp23", Name: "Supplier Orders", Systems: []string{"Ordering System", "EDI Gateway"}, Description: "Place orders with suppliers"},
			},
		},
	},
	Teams: map[string]Team{
		"WMS-A":              {Name: "Warehouse Systems Team A", Contact: "wms-a@company.com"},
		"WMS-B":              {Name: "Warehouse Systems Team B", Contact: "wms-b@company.com"},
		"TMS":                {Name: "Transport Systems", Contact: "transport@company.com"},
		"Stock System":       {Name: "Stock Management Team", Contact: "stock@company.com"},
		"EDI Gateway":        {Name: "Integration Team", Contact: "edi@company.com"},
		"Forecasting System": {Name: "Planning Systems", Contact: "planning@company.com"},
		"Allocation Engine":  {Name: "Allocation Team", Contact: "allocation@company.com"},
		"POS":                {Name: "Store Systems", Contact: "store-tech@company.com"},
		"Cross-Dock System":  {Name: "Primary Hub Team", Contact: "crossdock@company.com"},
		"Ordering System":    {Name: "Replenishment Team", Contact: "replen@company.com"},
		"Stock Counter":      {Name: "Store Systems", Contact: "store-tech@company.com"},
	},
}

// Defaults returns a fresh copy of the built-in network.
func Defaults() *Dataset {
	return builtin.Clone()
}

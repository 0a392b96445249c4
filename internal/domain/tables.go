package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&User{},
	&SysOprLog{},
	// Cafe
	&Item{},
	&Inventory{},
	&Order{},
}

// Package repository maps the relational store to the domain model,
// one repository per aggregate root. Every call runs inside its own
// transaction with an isolation level chosen for that table's access
// pattern: menu, restaurant and table data are read thousands of times
// a day and updated rarely and off-hours, so their reads run relaxed;
// order data is mutated concurrently by guests and staff, so it runs
// REPEATABLE READ. Absence is a nil/empty result, not an error; any
// failure mid-build aborts the whole read, a partial object graph is
// never returned.
package repository

import "database/sql"

type Repository struct {
	Restaurants    RestaurantRepositoryInterface
	Tables         TableRepositoryInterface
	MenuCards      MenuCardRepositoryInterface
	TableOrders    TableOrderRepositoryInterface
	PersonalOrders PersonalOrderRepositoryInterface
}

func New(db *sql.DB) *Repository {
	return &Repository{
		Restaurants:    NewRestaurantRepository(db),
		Tables:         NewTableRepository(db),
		MenuCards:      NewMenuCardRepository(db),
		TableOrders:    NewTableOrderRepository(db),
		PersonalOrders: NewPersonalOrderRepository(db),
	}
}

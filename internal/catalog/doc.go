// Package catalog records opened IMF packages in a SQLite database so that
// assets can be located across packages by UUID.
//
// Each recorded package stores its CPL identity and the resolved location of
// every Asset Map entry. Recording the same CPL again replaces its previous
// rows. The database uses WAL mode and creates its schema on first use.
package catalog

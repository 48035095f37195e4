// Package common holds small generic helpers shared by the translation,
// schema and profile packages.
package common

// Package model defines the stored entities: users identified by their phone
// number and the geo-tagged pins they own.
package model

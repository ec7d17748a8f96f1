// Package service
package service

import "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"

type GdprServiceInterface interface {
	// VerifyToken compares the presented bearer token against the
	// configured one in constant time.
	VerifyToken(token string) bool
	// ExportData assembles the full personal data graph for a cid.
	ExportData(req *RequestGdprExport) *ApiResponse[ResponseGdprExport]
	// EraseData removes the user and everything referencing them.
	EraseData(req *RequestGdprErase) *ApiResponse[ResponseGdprErase]
}

type RequestGdprExport struct {
	Cid int `param:"cid"`
}

type ResponseGdprExport struct {
	User         *operation.User              `json:"user"`
	Registration *operation.Registration      `json:"registration"`
	Trainings    []*operation.Training        `json:"trainings"`
	Sessions     []*operation.TrainingSession `json:"sessions"`
	Checkrides   []*operation.Checkride       `json:"checkrides"`
}

type RequestGdprErase struct {
	Cid int `param:"cid"`
}

type ResponseGdprErase struct {
	Erased bool `json:"erased"`
}

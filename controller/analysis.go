// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"encoding/json"
	"net/http"

	"github.com/Netcracker/qubership-site-readiness-service/exception"
	"github.com/Netcracker/qubership-site-readiness-service/secctx"
	"github.com/Netcracker/qubership-site-readiness-service/service"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	"github.com/google/uuid"
)

const maxRequestBodyBytes = 64 * 1024

type AnalysisController interface {
	AnalyzeUrl(w http.ResponseWriter, r *http.Request)
}

func NewAnalysisController(analysisService service.AnalysisService) AnalysisController {
	return &analysisControllerImpl{analysisService: analysisService}
}

type analysisControllerImpl struct {
	analysisService service.AnalysisService
}

func (a *analysisControllerImpl) AnalyzeUrl(w http.ResponseWriter, r *http.Request) {
	requestId := r.Header.Get(secctx.RequestIdHeader)
	if requestId == "" {
		requestId = uuid.NewString()
	}
	w.Header().Set(secctx.RequestIdHeader, requestId)

	var req view.AnalyzeRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}

	ctx := secctx.MakeUserContext(r, requestId)
	report, err := a.analysisService.Analyze(ctx, req)
	if err != nil {
		respondWithError(w, "Analysis failed", err)
		return
	}
	respondWithJson(w, http.StatusOK, report)
}

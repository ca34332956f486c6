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

package main

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Netcracker/qubership-site-readiness-service/client"
	"github.com/Netcracker/qubership-site-readiness-service/controller"
	"github.com/Netcracker/qubership-site-readiness-service/repository"
	"github.com/Netcracker/qubership-site-readiness-service/security"
	"github.com/Netcracker/qubership-site-readiness-service/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func init() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func main() {
	readyChan := make(chan bool)
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}
	setLogLevel(systemInfoService.GetLogLevel())

	rulesetRepository, err := repository.NewRulesetRepository(systemInfoService.GetRulesetDir())
	if err != nil {
		panic(err)
	}
	rulesetService, err := service.NewRulesetService(rulesetRepository, systemInfoService.GetActiveRuleset())
	if err != nil {
		panic(err)
	}

	pageClient := client.NewPageClient(client.PageClientOptions{
		UserAgent:    systemInfoService.GetUserAgent(),
		Timeout:      systemInfoService.GetFetchTimeout(),
		MaxRedirects: systemInfoService.GetMaxRedirects(),
		MaxBodyBytes: systemInfoService.GetMaxBodyBytes(),
	})
	robotsClient := client.NewRobotsClient(systemInfoService.GetRobotsTimeout())

	var reviewClient client.ContentReviewClient
	if systemInfoService.GetOpenaiApiKey() != "" {
		reviewClient, err = client.NewOpenaiClient(systemInfoService.GetOpenaiApiKey(), systemInfoService.GetOpenaiModel(), systemInfoService.GetOpenaiProxy())
		if err != nil {
			panic(err)
		}
		log.Info("AI content review is enabled")
	}

	analysisService := service.NewAnalysisService(
		rulesetService,
		service.NewPageRetriever(pageClient),
		service.NewDocumentExtractor(),
		service.NewRobotsPolicyEvaluator(robotsClient, systemInfoService.IsRobotsFailOnUnreachable()),
		service.NewContentReviewService(reviewClient, systemInfoService.GetContentReviewTimeout()),
		service.NewScoreAggregator(),
	)

	analysisController := controller.NewAnalysisController(analysisService)
	rulesetController := controller.NewRulesetController(rulesetService)
	healthController := controller.NewHealthController(readyChan)

	secure := security.NoSecure
	if apiKey := systemInfoService.GetApiKey(); apiKey != "" {
		if err := security.SetupGoGuardian(apiKey); err != nil {
			panic(err)
		}
		secure = security.Secure
		log.Info("API key authentication is enabled")
	}

	var limiter *rate.Limiter
	if rps := systemInfoService.GetRateLimitRps(); rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), systemInfoService.GetRateLimitBurst())
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/analyze-url", secure(security.RateLimited(limiter, analysisController.AnalyzeUrl))).Methods(http.MethodPost)
	router.HandleFunc("/api/rulesets", secure(rulesetController.ListRulesets)).Methods(http.MethodGet)
	router.HandleFunc("/api/rulesets/{version}", secure(rulesetController.GetRuleset)).Methods(http.MethodGet)
	router.HandleFunc("/api/rulesets/{version}/file", secure(rulesetController.GetRulesetFile)).Methods(http.MethodGet)

	router.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)
	readyChan <- true
	close(readyChan)

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, router)
	log.Fatalf("%v", srv.ListenAndServe())
}

func setLogLevel(level string) {
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %s, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization", "api-key", "X-Request-Id"}))
	corsOptions = append(corsOptions, handlers.ExposedHeaders([]string{"X-Request-Id"}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}))
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 120 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
}

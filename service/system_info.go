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

package service

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	LISTEN_ADDRESS             = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED             = "ORIGIN_ALLOWED"
	LOG_LEVEL                  = "LOG_LEVEL"
	FETCH_TIMEOUT_SEC          = "FETCH_TIMEOUT_SEC"
	MAX_REDIRECTS              = "MAX_REDIRECTS"
	MAX_BODY_BYTES             = "MAX_BODY_BYTES"
	USER_AGENT                 = "USER_AGENT"
	ROBOTS_TIMEOUT_SEC         = "ROBOTS_TIMEOUT_SEC"
	ROBOTS_FAIL_ON_UNREACHABLE = "ROBOTS_FAIL_ON_UNREACHABLE"
	ACTIVE_RULESET             = "ACTIVE_RULESET"
	RULESET_DIR                = "RULESET_DIR"
	API_KEY                    = "API_KEY"
	RATE_LIMIT_RPS             = "RATE_LIMIT_RPS"
	RATE_LIMIT_BURST           = "RATE_LIMIT_BURST"
	OPENAI_API_KEY             = "OPENAI_API_KEY"
	OPENAI_MODEL               = "OPENAI_MODEL"
	OPENAI_PROXY               = "OPENAI_PROXY"
	CONTENT_REVIEW_TIMEOUT_SEC = "CONTENT_REVIEW_TIMEOUT_SEC"
)

const defaultRulesetVersion = "v1"

type SystemInfoService interface {
	Init() error
	GetListenAddress() string
	GetOriginAllowed() string
	GetLogLevel() string
	GetFetchTimeout() time.Duration
	GetMaxRedirects() int
	GetMaxBodyBytes() int64
	GetUserAgent() string
	GetRobotsTimeout() time.Duration
	IsRobotsFailOnUnreachable() bool
	GetActiveRuleset() string
	GetRulesetDir() string
	GetApiKey() string
	GetRateLimitRps() float64
	GetRateLimitBurst() int
	GetOpenaiApiKey() string
	GetOpenaiModel() string
	GetOpenaiProxy() string
	GetContentReviewTimeout() time.Duration
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) Init() error {
	g.setListenAddress()
	g.setOriginAllowed()
	g.setLogLevel()
	g.setUserAgent()
	g.setRuleset()
	g.setSecrets()
	g.setOpenaiModel()
	if err := g.setFetchLimits(); err != nil {
		return err
	}
	if err := g.setRobots(); err != nil {
		return err
	}
	if err := g.setRateLimit(); err != nil {
		return err
	}
	if err := g.setContentReviewTimeout(); err != nil {
		return err
	}

	return nil
}

func (g systemInfoServiceImpl) setListenAddress() {
	listenAddr := os.Getenv(LISTEN_ADDRESS)
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	g.systemInfoMap[LISTEN_ADDRESS] = listenAddr
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.systemInfoMap[LISTEN_ADDRESS].(string)
}

func (g systemInfoServiceImpl) setOriginAllowed() {
	g.systemInfoMap[ORIGIN_ALLOWED] = os.Getenv(ORIGIN_ALLOWED)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.systemInfoMap[ORIGIN_ALLOWED].(string)
}

func (g systemInfoServiceImpl) setLogLevel() {
	g.systemInfoMap[LOG_LEVEL] = os.Getenv(LOG_LEVEL)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.systemInfoMap[LOG_LEVEL].(string)
}

func (g systemInfoServiceImpl) setFetchLimits() error {
	timeout, err := getSeconds(FETCH_TIMEOUT_SEC, 30)
	if err != nil {
		return err
	}
	g.systemInfoMap[FETCH_TIMEOUT_SEC] = timeout

	maxRedirects, err := getInt(MAX_REDIRECTS, 5)
	if err != nil {
		return err
	}
	g.systemInfoMap[MAX_REDIRECTS] = maxRedirects

	maxBodyBytes, err := getInt(MAX_BODY_BYTES, 5*1024*1024)
	if err != nil {
		return err
	}
	g.systemInfoMap[MAX_BODY_BYTES] = int64(maxBodyBytes)
	return nil
}

func (g systemInfoServiceImpl) GetFetchTimeout() time.Duration {
	return g.systemInfoMap[FETCH_TIMEOUT_SEC].(time.Duration)
}

func (g systemInfoServiceImpl) GetMaxRedirects() int {
	return g.systemInfoMap[MAX_REDIRECTS].(int)
}

func (g systemInfoServiceImpl) GetMaxBodyBytes() int64 {
	return g.systemInfoMap[MAX_BODY_BYTES].(int64)
}

func (g systemInfoServiceImpl) setUserAgent() {
	g.systemInfoMap[USER_AGENT] = os.Getenv(USER_AGENT)
}

// GetUserAgent returns an empty string when the browser-like default should be used.
func (g systemInfoServiceImpl) GetUserAgent() string {
	return g.systemInfoMap[USER_AGENT].(string)
}

func (g systemInfoServiceImpl) setRobots() error {
	timeout, err := getSeconds(ROBOTS_TIMEOUT_SEC, 8)
	if err != nil {
		return err
	}
	g.systemInfoMap[ROBOTS_TIMEOUT_SEC] = timeout

	failOnUnreachable := false
	if v := os.Getenv(ROBOTS_FAIL_ON_UNREACHABLE); v != "" {
		failOnUnreachable, err = strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env %s has invalid value '%s': %w", ROBOTS_FAIL_ON_UNREACHABLE, v, err)
		}
	}
	g.systemInfoMap[ROBOTS_FAIL_ON_UNREACHABLE] = failOnUnreachable
	return nil
}

func (g systemInfoServiceImpl) GetRobotsTimeout() time.Duration {
	return g.systemInfoMap[ROBOTS_TIMEOUT_SEC].(time.Duration)
}

func (g systemInfoServiceImpl) IsRobotsFailOnUnreachable() bool {
	return g.systemInfoMap[ROBOTS_FAIL_ON_UNREACHABLE].(bool)
}

func (g systemInfoServiceImpl) setRuleset() {
	active := os.Getenv(ACTIVE_RULESET)
	if active == "" {
		active = defaultRulesetVersion
	}
	g.systemInfoMap[ACTIVE_RULESET] = active
	g.systemInfoMap[RULESET_DIR] = os.Getenv(RULESET_DIR)
}

func (g systemInfoServiceImpl) GetActiveRuleset() string {
	return g.systemInfoMap[ACTIVE_RULESET].(string)
}

func (g systemInfoServiceImpl) GetRulesetDir() string {
	return g.systemInfoMap[RULESET_DIR].(string)
}

func (g systemInfoServiceImpl) setSecrets() {
	g.systemInfoMap[API_KEY] = os.Getenv(API_KEY)
	g.systemInfoMap[OPENAI_API_KEY] = os.Getenv(OPENAI_API_KEY)
	g.systemInfoMap[OPENAI_PROXY] = os.Getenv(OPENAI_PROXY)
}

func (g systemInfoServiceImpl) GetApiKey() string {
	return g.systemInfoMap[API_KEY].(string)
}

func (g systemInfoServiceImpl) GetOpenaiApiKey() string {
	return g.systemInfoMap[OPENAI_API_KEY].(string)
}

func (g systemInfoServiceImpl) GetOpenaiProxy() string {
	return g.systemInfoMap[OPENAI_PROXY].(string)
}

func (g systemInfoServiceImpl) setOpenaiModel() {
	g.systemInfoMap[OPENAI_MODEL] = os.Getenv(OPENAI_MODEL)
}

func (g systemInfoServiceImpl) GetOpenaiModel() string {
	return g.systemInfoMap[OPENAI_MODEL].(string)
}

func (g systemInfoServiceImpl) setRateLimit() error {
	rps := 0.0
	if v := os.Getenv(RATE_LIMIT_RPS); v != "" {
		var err error
		rps, err = strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return fmt.Errorf("env %s has invalid value '%s'", RATE_LIMIT_RPS, v)
		}
	}
	g.systemInfoMap[RATE_LIMIT_RPS] = rps

	burst, err := getInt(RATE_LIMIT_BURST, 5)
	if err != nil {
		return err
	}
	g.systemInfoMap[RATE_LIMIT_BURST] = burst
	return nil
}

// GetRateLimitRps returns 0 when the analysis endpoint is not rate limited.
func (g systemInfoServiceImpl) GetRateLimitRps() float64 {
	return g.systemInfoMap[RATE_LIMIT_RPS].(float64)
}

func (g systemInfoServiceImpl) GetRateLimitBurst() int {
	return g.systemInfoMap[RATE_LIMIT_BURST].(int)
}

func (g systemInfoServiceImpl) setContentReviewTimeout() error {
	timeout, err := getSeconds(CONTENT_REVIEW_TIMEOUT_SEC, 20)
	if err != nil {
		return err
	}
	g.systemInfoMap[CONTENT_REVIEW_TIMEOUT_SEC] = timeout
	return nil
}

func (g systemInfoServiceImpl) GetContentReviewTimeout() time.Duration {
	return g.systemInfoMap[CONTENT_REVIEW_TIMEOUT_SEC].(time.Duration)
}

func getInt(envName string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(envName))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return 0, fmt.Errorf("env %s has invalid value '%s', positive integer expected", envName, v)
	}
	return i, nil
}

func getSeconds(envName string, def int) (time.Duration, error) {
	sec, err := getInt(envName, def)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}

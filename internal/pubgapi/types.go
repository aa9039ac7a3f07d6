package pubgapi

import (
	"fmt"
	"strings"
)

type AccountId string
type SeasonId string

// Shard of the stats API a player lives in
type Platform string

var platforms = map[Platform]struct{}{
	"steam":    {},
	"kakao":    {},
	"psn":      {},
	"xbox":     {},
	"console":  {},
	"stadia":   {},
	"pc-na":    {},
	"pc-eu":    {},
	"pc-as":    {},
	"pc-krjp":  {},
	"pc-jp":    {},
	"pc-oc":    {},
	"pc-sa":    {},
	"pc-sea":   {},
	"pc-kakao": {},
	"pc-ru":    {},
}

// Normalise user input into a known platform.
// Case does not matter and underscores are accepted in place of dashes
func ParsePlatform(input string) (Platform, error) {
	platform := Platform(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(input)), "_", "-"))
	if _, ok := platforms[platform]; !ok {
		return "", fmt.Errorf("platform `%s` is not supported", input)
	}
	return platform, nil
}

type Player struct {
	Id       AccountId
	Name     string
	Platform Platform
}

type Season struct {
	Id        SeasonId
	Current   bool
	Offseason bool
}

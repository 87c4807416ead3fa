package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/marben/fract"
)

// regionsHandler lists the landmark viewports a client can jump to.
func regionsHandler(w http.ResponseWriter, r *http.Request) {
	regions := make(map[string]fract.PlaneRect)
	for _, name := range fract.RegionNames() {
		reg, _ := fract.LookupRegion(name)
		regions[name] = reg.Plane()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(regions); err != nil {
		log.Printf("regions: %v", err)
	}
}

// mirror-server serves local fixture copies of the official catalog JSON so
// the fetch jobs can run offline. Point the catalog URL env vars at it:
//
//	OTOGEHUB_CHUNI_CATALOG_URL=http://localhost:9000/chunithm/music.json
//	OTOGEHUB_MAI_CATALOG_URL=http://localhost:9000/maimai/maimai_songs.json
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
)

func serveJSON(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(path)
		if err != nil {
			http.Error(w, "cannot read "+path+": "+err.Error(), http.StatusInternalServerError)
			return
		}
		// validate so a bad fixture doesn't silently break the jobs
		var tmp any
		if err := json.Unmarshal(b, &tmp); err != nil {
			http.Error(w, path+" invalid JSON: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

func main() {
	http.HandleFunc("/chunithm/music.json", serveJSON("data/chuni_music.json"))
	http.HandleFunc("/maimai/maimai_songs.json", serveJSON("data/maimai_songs.json"))
	http.HandleFunc("/constants.json", serveJSON("data/constants.json"))

	log.Println("mirror-server listening on http://localhost:9000")
	log.Fatal(http.ListenAndServe(":9000", nil))
}

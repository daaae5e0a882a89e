package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

type entry struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

type timesResponse struct {
	Date        string  `json:"date"`
	Placeholder bool    `json:"placeholder"`
	Times       []entry `json:"times"`
}

type nextResponse struct {
	Name string `json:"name"`
	Time string `json:"time"`
	In   string `json:"in"`
}

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}
	date := flag.String("date", "", "date to show (YYYY-MM-DD), default today")
	refresh := flag.Bool("refresh", false, "ask the daemon to refetch before printing")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	if *refresh {
		resp, err := client.Post(api+"/api/prayer-times/refresh", "application/json", nil)
		if err != nil {
			fmt.Println("Error contacting API:", err)
			os.Exit(1)
		}
		resp.Body.Close()
		fmt.Println("Refresh scheduled.")
	}

	url := api + "/api/prayer-times"
	if *date != "" {
		url += "?date=" + *date
	}
	var day timesResponse
	if err := getJSON(client, url, &day); err != nil {
		fmt.Println("Error contacting API:", err)
		os.Exit(1)
	}

	fmt.Printf("Prayer times for %s\n", day.Date)
	for _, e := range day.Times {
		fmt.Printf("  %-8s %s\n", e.Name, e.Time)
	}
	if day.Placeholder {
		fmt.Println("(not downloaded yet; the daemon keeps retrying)")
		return
	}

	if *date == "" {
		var next nextResponse
		if err := getJSON(client, api+"/api/prayer-times/next", &next); err == nil {
			fmt.Printf("Next: %s at %s (in %s)\n", next.Name, next.Time, next.In)
		}
	}
}

func getJSON(c *http.Client, url string, out any) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

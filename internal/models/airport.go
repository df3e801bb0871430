package models

type AirportInfo struct {
	IATACode    string  `json:"iata_code" yaml:"iata_code"`
	Name        string  `json:"name" yaml:"name"`
	CityName    string  `json:"city_name" yaml:"city_name"`
	CountryName string  `json:"country_name" yaml:"country_name"`
	Latitude    float64 `json:"latitude" yaml:"latitude"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`
}

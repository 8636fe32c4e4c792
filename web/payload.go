package web

import "html/template"

type NamedKey struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

type IndexPayload struct {
	Title           string     `json:"title"`
	Languages       []NamedKey `json:"languages"`
	Structures      []NamedKey `json:"structures"`
	RandomLanguages []string   `json:"randomLanguages"`
}

type AboutPayload struct {
	Title string `json:"title"`
}

type Category struct {
	ID       string   `json:"id"`
	Concepts []string `json:"concepts"`
}

type ComparedConcept struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Code1    template.HTML `json:"code1"`
	Code2    template.HTML `json:"code2"`
	Comment1 string        `json:"comment1"`
	Comment2 string        `json:"comment2"`
}

type ComparePayload struct {
	Title               string            `json:"title"`
	Concept             string            `json:"concept"`
	ConceptFriendlyName string            `json:"concept_friendly_name"`
	Lang1               string            `json:"lang1"`
	Lang2               string            `json:"lang2"`
	Lang1FriendlyName   string            `json:"lang1_friendlyname"`
	Lang2FriendlyName   string            `json:"lang2_friendlyname"`
	Categories          []Category        `json:"categories"`
	Concepts            []ComparedConcept `json:"concepts"`
}

type ReferencedConcept struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Code    template.HTML `json:"code"`
	Comment string        `json:"comment"`
}

type ReferencePayload struct {
	Title               string              `json:"title"`
	Concept             string              `json:"concept"`
	ConceptFriendlyName string              `json:"concept_friendly_name"`
	Lang                string              `json:"lang"`
	LangFriendlyName    string              `json:"lang_friendlyname"`
	Categories          []Category          `json:"categories"`
	Concepts            []ReferencedConcept `json:"concepts"`
}

type ErrorPayload struct {
	Title   string `json:"-"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

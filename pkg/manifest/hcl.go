package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// HCL layout:
//
//	binding "admin" {
//	  namespace = "app.composers"
//	  prefix    = "admin"
//
//	  step {
//	    compose = [["dashboard"], ["users.index", "users.show"]]
//	    with    = ["StatsComposer"]
//	  }
//	}
type hclFile struct {
	Bindings []hclBinding `hcl:"binding,block"`
}

type hclBinding struct {
	Name      string    `hcl:"name,label"`
	Namespace string    `hcl:"namespace,optional"`
	Prefix    string    `hcl:"prefix,optional"`
	Steps     []hclStep `hcl:"step,block"`
}

type hclStep struct {
	Namespace *string    `hcl:"namespace,optional"`
	Prefix    *string    `hcl:"prefix,optional"`
	Compose   [][]string `hcl:"compose,optional"`
	Create    [][]string `hcl:"create,optional"`
	With      []string   `hcl:"with,optional"`
}

func parseHCL(data []byte, source string) (documentFile, error) {
	var file hclFile
	if err := hclsimple.Decode(source, data, nil, &file); err != nil {
		return documentFile{}, fmt.Errorf("manifest: parse %s: %w", source, err)
	}

	doc := documentFile{Bindings: make([]Binding, 0, len(file.Bindings))}
	for _, raw := range file.Bindings {
		binding := Binding{
			Name:      raw.Name,
			Namespace: raw.Namespace,
			Prefix:    raw.Prefix,
			Steps:     make([]Step, 0, len(raw.Steps)),
		}
		for _, step := range raw.Steps {
			binding.Steps = append(binding.Steps, Step(step))
		}
		doc.Bindings = append(doc.Bindings, binding)
	}
	return doc, nil
}

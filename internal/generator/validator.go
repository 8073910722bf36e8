package generator

// validatePaths makes every operation declare exactly the path parameters
// its path template contains.
func (g *Generator) validatePaths(spec *OpenAPISpec) {
	for path, pathItem := range spec.Paths {
		params := pathParameters(path)
		for _, operation := range pathItem.operations() {
			g.validateOperationParameters(operation, params)
		}
	}
}

func (g *Generator) validateOperationParameters(operation *Operation, pathParams []string) {
	if operation == nil {
		return
	}

	expectedParams := make(map[string]bool)
	for _, name := range pathParams {
		expectedParams[name] = true
	}

	// Drop path parameters the template no longer has
	validParams := []Parameter{}
	for _, param := range operation.Parameters {
		if param.In != "path" || expectedParams[param.Name] {
			validParams = append(validParams, param)
		}
	}

	// Add missing path parameters in template order
	for _, name := range pathParams {
		found := false
		for _, param := range validParams {
			if param.In == "path" && param.Name == name {
				found = true
				break
			}
		}
		if !found {
			validParams = append(validParams, Parameter{
				Name:     name,
				In:       "path",
				Required: true,
				Schema:   Schema{Type: "string"},
			})
		}
	}

	if len(validParams) == 0 {
		validParams = nil
	}
	operation.Parameters = validParams
}

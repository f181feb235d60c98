package goaml

// Package goaml provides:
//
// - A typed object model for device readings (Object, Data and the Value sum type)
// - Schema-governed conversion of Objects to and from AutomationML (CAEX 2.15) documents
// - A binary (protobuf wire format) mirror of the same instance tree
// - A stable error model via *Error carrying a Code (errors.Is against the Err* sentinels)
//
// Design policy:
// - Keep only public APIs in the root package; put the wire codec under internal/.
// - JSON/YAML views of Objects live under objview/, the CLI under cmd/goaml.
// - The data model is loaded once and never mutated; conversions share it read-only.
//
// Typical usage:
//
//  rep, err := goaml.NewRepresentation("data_model.aml", goaml.WithLogger(logger))
//
//  obj, _ := goaml.NewObject("SAMPLE001", "123456789")
//  model := goaml.NewData()
//  _ = model.SetString("a", "Model_107.113.97.248")
//  _ = obj.AddData("Model", model)
//
//  aml, err := rep.DataToAML(obj)
//  back, err := rep.AMLToData(aml)
//  bin, err := rep.DataToByte(obj)
//
// Build with -tags noprotobuf to drop the binary path; DataToByte and
// ByteToData then fail with CodeCapabilityDisabled.

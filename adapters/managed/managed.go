// Package managed installs the verifier into a goja JavaScript runtime.
//
// Scripts see a global `ksig` object:
//
//	ksig.runProofVerificationFromFiles()
//	ksig.runProofVerificationWithInputs({msgHash, r, s, pubX, pubY})
//
// Both return {success, errorMessage, proofData}, with null for absent
// values. Bad arguments and validation or encoding failures throw.
package managed

import (
	"context"
	"fmt"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	"github.com/dop251/goja"
)

// Global is the name of the object installed into the runtime.
const Global = "ksig"

// Exported function names.
const (
	FuncFromFiles  = "runProofVerificationFromFiles"
	FuncWithInputs = "runProofVerificationWithInputs"
)

// Option configures Install.
type Option func(*binding)

// WithContext sets the context passed to every verification. The default is
// context.Background().
func WithContext(ctx context.Context) Option {
	return func(b *binding) {
		b.ctx = ctx
	}
}

// WithGlobal installs the object under name instead of Global.
func WithGlobal(name string) Option {
	return func(b *binding) {
		b.global = name
	}
}

type binding struct {
	ctx      context.Context
	vm       *goja.Runtime
	verifier ports.Verifier
	global   string
}

// Install adds the verification object to vm. A goja runtime is not safe
// for concurrent use, so neither is the installed object.
func Install(vm *goja.Runtime, v ports.Verifier, opts ...Option) error {
	b := &binding{
		ctx:      context.Background(),
		vm:       vm,
		verifier: v,
		global:   Global,
	}
	for _, opt := range opts {
		opt(b)
	}

	obj := vm.NewObject()
	if err := obj.Set(FuncFromFiles, b.fromFiles); err != nil {
		return fmt.Errorf("failed to bind %s: %w", FuncFromFiles, err)
	}
	if err := obj.Set(FuncWithInputs, b.withInputs); err != nil {
		return fmt.Errorf("failed to bind %s: %w", FuncWithInputs, err)
	}
	if err := vm.Set(b.global, obj); err != nil {
		return fmt.Errorf("failed to install %s: %w", b.global, err)
	}
	return nil
}

func (b *binding) fromFiles(goja.FunctionCall) goja.Value {
	out, err := b.verifier.VerifyFromFiles(b.ctx)
	if err != nil {
		panic(b.vm.NewGoError(err))
	}
	return b.outcome(out)
}

func (b *binding) withInputs(call goja.FunctionCall) goja.Value {
	arg := call.Argument(0)
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		panic(b.vm.NewTypeError("%s expects an object argument", FuncWithInputs))
	}
	obj := arg.ToObject(b.vm)

	var req entities.ProofRequest
	targets := map[string]*string{
		entities.FieldMsgHash: &req.MsgHash,
		entities.FieldR:       &req.R,
		entities.FieldS:       &req.S,
		entities.FieldPubX:    &req.PubX,
		entities.FieldPubY:    &req.PubY,
	}
	for _, f := range req.Fields() {
		val := obj.Get(f.Name)
		if val == nil || goja.IsUndefined(val) {
			panic(b.vm.NewTypeError("missing property %q", f.Name))
		}
		s, ok := val.Export().(string)
		if !ok {
			panic(b.vm.NewTypeError("property %q must be a string", f.Name))
		}
		*targets[f.Name] = s
	}

	out, err := b.verifier.VerifyWithInputs(b.ctx, req)
	if err != nil {
		panic(b.vm.NewGoError(err))
	}
	return b.outcome(out)
}

func (b *binding) outcome(out entities.VerificationOutcome) goja.Value {
	obj := b.vm.NewObject()
	_ = obj.Set("success", out.Success)
	_ = obj.Set("errorMessage", b.nullable(out.ErrorMessage))
	_ = obj.Set("proofData", b.nullable(out.ProofData))
	return obj
}

func (b *binding) nullable(s *string) goja.Value {
	if s == nil {
		return goja.Null()
	}
	return b.vm.ToValue(*s)
}

// ExportOutcome converts a value returned by one of the installed functions
// back into an outcome.
func ExportOutcome(vm *goja.Runtime, val goja.Value) (entities.VerificationOutcome, error) {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return entities.VerificationOutcome{}, fmt.Errorf("outcome is %v", val)
	}
	obj := val.ToObject(vm)

	var out entities.VerificationOutcome
	sv := obj.Get("success")
	if sv == nil {
		return entities.VerificationOutcome{}, fmt.Errorf("outcome has no success property")
	}
	success, ok := sv.Export().(bool)
	if !ok {
		return entities.VerificationOutcome{}, fmt.Errorf("outcome success is not a boolean")
	}
	out.Success = success
	for key, dst := range map[string]**string{"errorMessage": &out.ErrorMessage, "proofData": &out.ProofData} {
		v := obj.Get(key)
		if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
			continue
		}
		s, ok := v.Export().(string)
		if !ok {
			return entities.VerificationOutcome{}, fmt.Errorf("outcome %s is not a string", key)
		}
		*dst = &s
	}
	return out, nil
}

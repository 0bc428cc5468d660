package pluginject

import "github.com/google/uuid"

type IService interface {
	GetValue() int
}
type Service struct {
	id string
}

func (s *Service) GetValue() int {
	return 12
}

func NewService() IService {
	return &Service{
		id: uuid.NewString(),
	}
}

func NewServiceUnsafe() (IService, error) {
	return &Service{id: uuid.NewString()}, nil
}

type CustomError struct{}

func (c *CustomError) Error() string {
	return "custom error"
}

var customError = &CustomError{}

func NewServiceError() (IService, error) {
	return nil, customError
}

type OtherService struct {
	id string
}

func (s *OtherService) GetValue() int {
	return 13
}

func NewOtherService() IService {
	return &OtherService{id: uuid.NewString()}
}

// Discovery fixtures. A Thing may come from an explicit binding or from a
// plugin registry; MultiThing has two plugin implementations with different
// priorities.

type Thing interface {
	ThingID() string
}

type MyThing struct {
	id string
}

func (t *MyThing) ThingID() string { return t.id }

func NewMyThing() Thing {
	return &MyThing{id: uuid.NewString()}
}

type ThingFromPluginConfig struct {
	id string
}

func (t *ThingFromPluginConfig) ThingID() string { return t.id }

func NewThingFromPluginConfig() *ThingFromPluginConfig {
	return &ThingFromPluginConfig{id: uuid.NewString()}
}

type Umm interface {
	Thing() Thing
}

type MyUmm struct {
	thing Thing
}

func (u *MyUmm) Thing() Thing { return u.thing }

func NewMyUmm(thing Thing) Umm {
	return &MyUmm{thing: thing}
}

type MultiThing interface {
	MultiThingName() string
}

type MultiThingA struct {
	id string
}

func (*MultiThingA) MultiThingName() string { return "A" }

func NewMultiThingA() *MultiThingA {
	return &MultiThingA{id: uuid.NewString()}
}

type MultiThingX struct {
	id string
}

func (*MultiThingX) MultiThingName() string { return "X" }

func NewMultiThingX() *MultiThingX {
	return &MultiThingX{id: uuid.NewString()}
}

// Factory fixtures.

type Widget struct {
	Name    string
	Service IService
	id      string
}

func NewWidget(name string, service IService) *Widget {
	return &Widget{
		Name:    name,
		Service: service,
		id:      uuid.NewString(),
	}
}

func NewBrokenWidget(name string, service IService) (*Widget, error) {
	return nil, customError
}

type WidgetFactory func(name string) (*Widget, error)

type UnsafeWidgetFactory func(name string) *Widget

// Qualifier fixtures. The replica marker type qualifies a dependency as the
// binding named "replica".

type replica struct{}

type Reporter struct {
	main    IService
	replica IService
}

func NewReporter(main IService, replicaService Qualified[IService, replica]) *Reporter {
	return &Reporter{
		main:    main,
		replica: replicaService.Value,
	}
}

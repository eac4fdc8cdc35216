package prompt

// Component documents one pre-styled UI component the generated code may
// import: its display name, import statement, and a minimal usage example.
type Component struct {
	Name       string
	ImportDocs string
	UsageDocs  string
}

// Components is the catalog of pre-styled UI components advertised to the
// model when component docs are enabled for a chat.
var Components = []Component{
	{
		Name: "Aspect Ratio",
		ImportDocs: `
import { AspectRatio } from "/components/ui/aspect-ratio";
`,
		UsageDocs: `
<AspectRatio ratio={16 / 9}>
  <img
    src="..."
    alt="Image"
    className="rounded-md object-cover w-full h-full"
  />
</AspectRatio>
`,
	},
	{
		Name: "Collapsible",
		ImportDocs: `
import {
  Collapsible,
  CollapsibleContent,
  CollapsibleTrigger,
} from "/components/ui/collapsible";
`,
		UsageDocs: `
<Collapsible>
  <CollapsibleTrigger>Toggle</CollapsibleTrigger>
  <CollapsibleContent>
    Content that can be collapsed and expanded.
  </CollapsibleContent>
</Collapsible>
`,
	},
	{
		Name: "Dialog",
		ImportDocs: `
import {
  Dialog,
  DialogContent,
  DialogDescription,
  DialogHeader,
  DialogTitle,
  DialogTrigger,
} from "/components/ui/dialog";
`,
		UsageDocs: `
<Dialog>
  <DialogTrigger>Open</DialogTrigger>
  <DialogContent aria-describedby={undefined}>
    <DialogTitle>Dialog Title</DialogTitle>
    <DialogHeader>
      <DialogTitle>Dialog Title</DialogTitle>
      <DialogDescription>
        This is a dialog description.
      </DialogDescription>
    </DialogHeader>
  </DialogContent>
</Dialog>
`,
	},
	{
		Name: "Dropdown Menu",
		ImportDocs: `
import {
  DropdownMenu,
  DropdownMenuContent,
  DropdownMenuItem,
  DropdownMenuTrigger,
} from "/components/ui/dropdown-menu";
`,
		UsageDocs: `
<DropdownMenu>
  <DropdownMenuTrigger>Open Menu</DropdownMenuTrigger>
  <DropdownMenuContent>
    <DropdownMenuItem>Profile</DropdownMenuItem>
    <DropdownMenuItem>Settings</DropdownMenuItem>
    <DropdownMenuItem>Logout</DropdownMenuItem>
  </DropdownMenuContent>
</DropdownMenu>
`,
	},
	{
		Name: "Hover Card",
		ImportDocs: `
import {
  HoverCard,
  HoverCardContent,
  HoverCardTrigger,
} from "/components/ui/hover-card";
`,
		UsageDocs: `
<HoverCard>
  <HoverCardTrigger>Hover me</HoverCardTrigger>
  <HoverCardContent>
    This content appears when you hover over the trigger.
  </HoverCardContent>
</HoverCard>
`,
	},
	{
		Name: "Menubar",
		ImportDocs: `
import {
  Menubar,
  MenubarContent,
  MenubarItem,
  MenubarMenu,
  MenubarTrigger,
} from "/components/ui/menubar";
`,
		UsageDocs: `
<Menubar>
  <MenubarMenu>
    <MenubarTrigger>File</MenubarTrigger>
    <MenubarContent>
      <MenubarItem>New</MenubarItem>
      <MenubarItem>Open</MenubarItem>
      <MenubarItem>Save</MenubarItem>
    </MenubarContent>
  </MenubarMenu>
</Menubar>
`,
	},
	{
		Name: "Navigation Menu",
		ImportDocs: `
import {
  NavigationMenu,
  NavigationMenuContent,
  NavigationMenuItem,
  NavigationMenuLink,
  NavigationMenuList,
  NavigationMenuTrigger,
} from "/components/ui/navigation-menu";
`,
		UsageDocs: `
<NavigationMenu>
  <NavigationMenuList>
    <NavigationMenuItem>
      <NavigationMenuTrigger>Item One</NavigationMenuTrigger>
      <NavigationMenuContent>
        <NavigationMenuLink>Link</NavigationMenuLink>
      </NavigationMenuContent>
    </NavigationMenuItem>
  </NavigationMenuList>
</NavigationMenu>
`,
	},
	{
		Name: "Popover",
		ImportDocs: `
import {
  Popover,
  PopoverContent,
  PopoverTrigger,
} from "/components/ui/popover";
`,
		UsageDocs: `
<Popover>
  <PopoverTrigger>Open</PopoverTrigger>
  <PopoverContent>
    Place content for the popover here.
  </PopoverContent>
</Popover>
`,
	},
	{
		Name: "Progress",
		ImportDocs: `
import { Progress } from "/components/ui/progress";
`,
		UsageDocs: `
<Progress value={60} />
`,
	},
	{
		Name: "Separator",
		ImportDocs: `
import { Separator } from "/components/ui/separator";
`,
		UsageDocs: `
<div>
  <div>Content Above</div>
  <Separator />
  <div>Content Below</div>
</div>
`,
	},
	{
		Name: "Slider",
		ImportDocs: `
import { Slider } from "/components/ui/slider";
`,
		UsageDocs: `
<Slider defaultValue={[50]} max={100} step={1} />
`,
	},
	{
		Name: "Tabs",
		ImportDocs: `
import {
  Tabs,
  TabsContent,
  TabsList,
  TabsTrigger,
} from "/components/ui/tabs";
`,
		UsageDocs: `
<Tabs defaultValue="tab1">
  <TabsList>
    <TabsTrigger value="tab1">Tab 1</TabsTrigger>
    <TabsTrigger value="tab2">Tab 2</TabsTrigger>
  </TabsList>
  <TabsContent value="tab1">Tab 1 content</TabsContent>
  <TabsContent value="tab2">Tab 2 content</TabsContent>
</Tabs>
`,
	},
	{
		Name: "Toast",
		ImportDocs: `
import { useToast } from "/components/ui/use-toast";
import { Button } from "/components/ui/button";
`,
		UsageDocs: `
function ToastDemo() {
  const { toast } = useToast();

  return (
    <Button
      onClick={() => {
        toast({
          title: "Scheduled",
          description: "Your message has been scheduled",
        });
      }}
    >
      Show Toast
    </Button>
  );
}
`,
	},
	{
		Name: "Toggle Group",
		ImportDocs: `
import {
  ToggleGroup,
  ToggleGroupItem,
} from "/components/ui/toggle-group";
`,
		UsageDocs: `
<ToggleGroup type="single">
  <ToggleGroupItem value="a">A</ToggleGroupItem>
  <ToggleGroupItem value="b">B</ToggleGroupItem>
  <ToggleGroupItem value="c">C</ToggleGroupItem>
</ToggleGroup>
`,
	},
	{
		Name: "Tooltip",
		ImportDocs: `
import {
  Tooltip,
  TooltipContent,
  TooltipProvider,
  TooltipTrigger,
} from "/components/ui/tooltip";
`,
		UsageDocs: `
<TooltipProvider>
  <Tooltip>
    <TooltipTrigger>Hover</TooltipTrigger>
    <TooltipContent>
      <p>Add to library</p>
    </TooltipContent>
  </Tooltip>
</TooltipProvider>
`,
	},
}
